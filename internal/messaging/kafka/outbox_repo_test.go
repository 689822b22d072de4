package kafka_test

import (
	"context"
	"testing"

	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-9")

	event, err := kafka.NewOutboxEvent(ctx, "payroll", "p-1", "payroll_calculated", "topic.v1", map[string]string{"a": "b"})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "req-9", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.JSONEq(t, `{"a":"b"}`, string(event.Payload))
	assert.NoError(t, kafka.ValidateOutboxEvent(event))
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	require.NoError(t, kafka.ValidateOutboxEvent(valid))

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}

func TestOutboxRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	gdb, sqlDB := testdb.Open(t, &kafka.OutboxEvent{})
	repo := kafka.NewOutboxRepository(gdb)

	first, err := kafka.NewOutboxEvent(ctx, "payroll", "p-1", "payroll_calculated", "t", map[string]int{"n": 1})
	require.NoError(t, err)
	second, err := kafka.NewOutboxEvent(ctx, "payroll", "p-2", "payroll_calculated", "t", map[string]int{"n": 2})
	require.NoError(t, err)

	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.WithTx(tx).Create(ctx, first))
	require.NoError(t, repo.WithTx(tx).Create(ctx, second))
	require.NoError(t, tx.Commit())

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, repo.MarkSent(ctx, first.ID))
	require.NoError(t, repo.MarkFailed(ctx, second.ID, "broker unavailable"))

	// the failed event waits for its backoff
	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var stored kafka.OutboxEvent
	require.NoError(t, gdb.Where("id = ?", second.ID).First(&stored).Error)
	assert.Equal(t, kafka.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "broker unavailable", *stored.ErrorMessage)
	assert.NotNil(t, stored.NextRetryAt)
}

func TestOutboxRepository_RolledBackTxLeavesNothing(t *testing.T) {
	ctx := context.Background()
	gdb, sqlDB := testdb.Open(t, &kafka.OutboxEvent{})
	repo := kafka.NewOutboxRepository(gdb)

	event, err := kafka.NewOutboxEvent(ctx, "period", "x", "period_opened", "t", struct{}{})
	require.NoError(t, err)

	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.WithTx(tx).Create(ctx, event))
	require.NoError(t, tx.Rollback())

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
