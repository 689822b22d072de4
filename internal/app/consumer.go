package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// consumerActor is recorded as computed_by on payrolls created by the
// period_opened consumer.
const consumerActor = "period-consumer"

// RunConsumer runs the bulk payroll for every opened period until SIGINT or
// SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	payrollRepo := payroll.NewRepository(gormDB)
	payrollService := payroll.NewService(
		sqlDB,
		payrollRepo,
		payroll.NewCalculator(payroll.DefaultRates(), nil),
		nil,
		kafka.NewOutboxRepository(gormDB),
		logger,
	)
	bulkProcessor := payroll.NewBulkProcessor(payrollRepo, payrollService, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PeriodLifecycleTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePeriodLifecycle(ctx, reader, bulkProcessor, consumerActor, logger)

	log.Info("consumer shut down")
	return nil
}
