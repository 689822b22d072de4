package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all process configuration shared by api, worker and consumer.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	HTTP     HTTPConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig selects the gorm dialector. Driver "sqlite" uses Path and
// ignores the network settings.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	Path       string
	MaxRetries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	PollInterval time.Duration
	BatchSize    int
}

type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	RateLimitRequests float64
	RateLimitBurst    int
	IdempotencyTTL    time.Duration
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// .env is optional in containers
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetInt("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			Path:       v.GetString("DB_PATH"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Broker:       v.GetString("KAFKA_BROKER"),
			GroupID:      v.GetString("KAFKA_GROUP_ID"),
			PollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
			BatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:      v.GetDuration("HTTP_WRITE_TIMEOUT"),
			RateLimitRequests: v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
			IdempotencyTTL:    v.GetDuration("IDEMPOTENCY_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "go-payroll")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "payroll")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "payroll.db")
	v.SetDefault("DB_MAX_RETRIES", 10)

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_GROUP_ID", "payroll-bulk-runner")
	v.SetDefault("OUTBOX_POLL_INTERVAL", 5*time.Second)
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)

	v.SetDefault("HTTP_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("IDEMPOTENCY_TTL", 24*time.Hour)
}

// Validate rejects settings that would only fail later at connect time.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return errors.New("config: DB_HOST is required for postgres")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("config: invalid DB_PORT %d", c.Database.Port)
		}
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("config: DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.App.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.Kafka.BatchSize <= 0 {
		return fmt.Errorf("config: invalid OUTBOX_BATCH_SIZE %d", c.Kafka.BatchSize)
	}
	return nil
}
