package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumePeriodLifecycle runs the bulk payroll for every period_opened
// event. Messages whose run failed on infrastructure stay uncommitted so
// the group redelivers them; rejected runs (closed or unknown period) are
// committed.
func ConsumePeriodLifecycle(
	ctx context.Context,
	reader MessageReader,
	runner payroll.BatchRunner,
	actor string,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.period_lifecycle")
	log.Info("period lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("period lifecycle consumer stopped")
				return
			}
			log.Error("fetch period lifecycle message failed", zap.Error(err))
			continue
		}

		handlePeriodMessage(ctx, reader, runner, actor, log, msg)
	}
}

func handlePeriodMessage(
	ctx context.Context,
	reader MessageReader,
	runner payroll.BatchRunner,
	actor string,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.PeriodOpenedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode period lifecycle event failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if event.EventType != events.PeriodOpened {
		log.Debug("skip period lifecycle event", zap.String("event_type", event.EventType))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	result, err := runner.Run(ctx, event.PeriodID, actor)
	if err != nil {
		if retryable(err) {
			log.Error("bulk payroll run failed, leaving message for redelivery",
				zap.String("period_id", event.PeriodID),
				zap.Error(err),
			)
			return
		}

		log.Warn("bulk payroll run rejected",
			zap.String("period_id", event.PeriodID),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit period lifecycle message failed", zap.Error(err))
		return
	}

	log.Info("bulk payroll run from period_opened event",
		zap.String("period_id", event.PeriodID),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
}

func retryable(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == apperror.KindInternal || appErr.Kind == apperror.KindServiceUnavailable
	}
	return true
}
