package circuitbreaker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	ran := false
	err := cb.Execute(context.Background(), "test-success", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestExecutePropagatesError(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	boom := errors.New("boom")
	err := cb.Execute(context.Background(), "test-error", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestExecuteNilFunction(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	assert.Error(t, cb.Execute(context.Background(), "test-nil", nil))
}
