package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sliceReader serves queued messages, then blocks until ctx ends.
type sliceReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []kafkago.Message
	drained   chan struct{}
}

func newSliceReader(msgs ...kafkago.Message) *sliceReader {
	return &sliceReader{queue: msgs, drained: make(chan struct{})}
}

func (r *sliceReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *sliceReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *sliceReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.committed))
	for i, m := range r.committed {
		out[i] = m.Offset
	}
	return out
}

type recordingRunner struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
}

func (r *recordingRunner) Run(_ context.Context, periodID, actor string) (payroll.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, periodID+"/"+actor)
	if err := r.errs[periodID]; err != nil {
		return payroll.BatchResult{}, err
	}
	return payroll.BatchResult{PeriodID: periodID, Total: 1, Succeeded: 1}, nil
}

func message(t *testing.T, offset int64, eventType, periodID string) kafkago.Message {
	t.Helper()
	value, err := json.Marshal(events.PeriodOpenedEvent{EventType: eventType, PeriodID: periodID})
	require.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: value}
}

func TestConsumePeriodLifecycle(t *testing.T) {
	reader := newSliceReader(
		message(t, 1, events.PeriodOpened, "p-ok"),
		message(t, 2, "period_closed", "p-skip"),
		kafkago.Message{Offset: 3, Value: []byte("{not json")},
		message(t, 4, events.PeriodOpened, "p-closed"),
		message(t, 5, events.PeriodOpened, "p-db-down"),
	)
	runner := &recordingRunner{errs: map[string]error{
		"p-closed":  payrollerrors.ErrPeriodClosed,
		"p-db-down": errors.New("dial tcp: connection refused"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ConsumePeriodLifecycle(ctx, reader, runner, "period-consumer", zap.NewNop())
	}()

	<-reader.drained
	cancel()
	<-done

	assert.Equal(t, []string{
		"p-ok/period-consumer",
		"p-closed/period-consumer",
		"p-db-down/period-consumer",
	}, runner.calls)
	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committedOffsets(), "infrastructure failures stay uncommitted")
}
