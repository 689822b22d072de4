package period_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/period"
	perioderrors "go-payroll/internal/period/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	gdb     *gorm.DB
	service period.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb, sqlDB := testdb.Open(t, &period.Period{}, &kafka.OutboxEvent{})
	// payroll rows are only counted here
	require.NoError(t, gdb.Exec(`CREATE TABLE payrolls (id TEXT PRIMARY KEY, period_id TEXT NOT NULL)`).Error)

	svc := period.NewService(sqlDB, period.NewRepository(gdb), kafka.NewOutboxRepository(gdb))
	return &fixture{gdb: gdb, service: svc}
}

func TestPeriodService_Create(t *testing.T) {
	ctx := contextutil.WithActor(context.Background(), "maria")

	t.Run("defaults dates to the calendar month and emits period_opened", func(t *testing.T) {
		f := setup(t)

		resp, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 2})

		require.NoError(t, err)
		assert.Equal(t, "2024-02", resp.Label)
		assert.Equal(t, "2024-02-01", resp.StartDate)
		assert.Equal(t, "2024-02-29", resp.EndDate)
		assert.Equal(t, "2024-02-29", resp.PayDate)
		assert.Equal(t, period.StatusOpen, resp.Status)
		assert.False(t, resp.IsClosed)

		var outbox []kafka.OutboxEvent
		require.NoError(t, f.gdb.Find(&outbox).Error)
		require.Len(t, outbox, 1)
		assert.Equal(t, events.PeriodOpened, outbox[0].EventType)
		assert.Equal(t, events.PeriodLifecycleTopic, outbox[0].Topic)

		var payload events.PeriodOpenedEvent
		require.NoError(t, json.Unmarshal(outbox[0].Payload, &payload))
		assert.Equal(t, resp.ID, payload.PeriodID)
		assert.Equal(t, "maria", payload.Actor)
	})

	t.Run("closed period emits no event", func(t *testing.T) {
		f := setup(t)

		_, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2023, Month: 12, Status: period.StatusClosed})
		require.NoError(t, err)

		var count int64
		require.NoError(t, f.gdb.Model(&kafka.OutboxEvent{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("duplicate year and month", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 3})
		require.NoError(t, err)

		_, err = f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 3})

		assert.ErrorIs(t, err, perioderrors.ErrDuplicatePeriod)
	})

	t.Run("invalid month", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 13})
		assert.ErrorIs(t, err, perioderrors.ErrInvalidMonth)
	})

	t.Run("start after end", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Create(ctx, period.CreatePeriodRequest{
			Year: 2024, Month: 4, StartDate: "2024-04-20", EndDate: "2024-04-10",
		})
		assert.ErrorIs(t, err, perioderrors.ErrInvalidDateRange)
	})

	t.Run("bad date format", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 4, PayDate: "30/04/2024"})
		assert.ErrorIs(t, err, perioderrors.ErrInvalidDateFormat)
	})
}

func TestPeriodService_Queries(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	for m := 1; m <= 3; m++ {
		status := period.StatusClosed
		if m == 3 {
			status = period.StatusOpen
		}
		_, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: m, Status: status})
		require.NoError(t, err)
	}

	open, err := f.service.GetOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 3, open[0].Month)

	latest, err := f.service.GetLatest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "2024-03", latest[0].Label)
	assert.Equal(t, "2024-02", latest[1].Label)

	_, err = f.service.GetLatest(ctx, 500)
	assert.ErrorIs(t, err, perioderrors.ErrInvalidLimit)

	byDate, err := f.service.GetByDate(ctx, "2024-02-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", byDate.Label)

	_, err = f.service.GetByDate(ctx, "2025-06-01")
	assert.ErrorIs(t, err, perioderrors.ErrPeriodNotFound)

	all, err := f.service.GetAll(ctx, period.PeriodFilter{Year: 2024})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.service.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, perioderrors.ErrInvalidPeriodID)

	_, err = f.service.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, perioderrors.ErrPeriodNotFound)
}

func TestPeriodService_Update(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 5})
	require.NoError(t, err)

	pay := "2024-06-05"
	closed := period.StatusClosed
	resp, err := f.service.Update(ctx, created.ID, period.UpdatePeriodRequest{PayDate: &pay, Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, pay, resp.PayDate)
	assert.True(t, resp.IsClosed)
	assert.Equal(t, created.StartDate, resp.StartDate)

	paid := period.StatusPaid
	_, err = f.service.Update(ctx, created.ID, period.UpdatePeriodRequest{Status: &paid})
	require.NoError(t, err)

	open := period.StatusOpen
	_, err = f.service.Update(ctx, created.ID, period.UpdatePeriodRequest{Status: &open})
	assert.ErrorIs(t, err, perioderrors.ErrInvalidStatusTransition)
}

func TestPeriodService_Delete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	withPayroll, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 6})
	require.NoError(t, err)
	empty, err := f.service.Create(ctx, period.CreatePeriodRequest{Year: 2024, Month: 7})
	require.NoError(t, err)

	require.NoError(t, f.gdb.Exec(`INSERT INTO payrolls (id, period_id) VALUES (?, ?)`, uuid.NewString(), withPayroll.ID).Error)

	err = f.service.Delete(ctx, withPayroll.ID)
	assert.ErrorIs(t, err, perioderrors.ErrPeriodHasPayrolls)

	require.NoError(t, f.service.Delete(ctx, empty.ID))
	assert.ErrorIs(t, f.service.Delete(ctx, empty.ID), perioderrors.ErrPeriodNotFound)
}
