package app

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the database and Redis, migrates the schema and mounts
// every module on router. The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	log.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	if err := Migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis, 5)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("REDIS_ADDR not set, summary cache and idempotency disabled")
	}

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.Actor(),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerModules(router, sqlDB, gormDB, rdb, logger)

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}
	return cleanup, nil
}
