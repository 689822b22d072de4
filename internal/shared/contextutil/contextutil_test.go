package contextutil_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestActorDefaultsToSystem(t *testing.T) {
	assert.Equal(t, contextutil.SystemActor, contextutil.GetActor(context.Background()))

	ctx := contextutil.WithActor(context.Background(), "analyst@acme")
	assert.Equal(t, "analyst@acme", contextutil.GetActor(ctx))
}

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	ctx = contextutil.WithActor(ctx, "ops")

	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "req-1", md.RequestID)
	assert.Equal(t, "ops", md.Actor)
}

func TestGetLoggerFallbacks(t *testing.T) {
	def := zap.NewExample()
	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample()
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}
