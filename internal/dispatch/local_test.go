package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFIFOOrder(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	require.NoError(t, l.Enqueue(ctx, "a"))
	require.NoError(t, l.Enqueue(ctx, "b"))
	require.NoError(t, l.Enqueue(ctx, "c"))

	for _, want := range []string{"a", "b", "c"} {
		got, err := l.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLocalDequeueBoundedWait(t *testing.T) {
	l := NewLocal()

	start := time.Now()
	_, err := l.Dequeue(context.Background())
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrEmpty)
	assert.Less(t, elapsed, 3*time.Second, "dequeue must not block unbounded")
}

func TestLocalDequeueObservesCancellation(t *testing.T) {
	l := NewLocal()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalEnqueueFull(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	for i := 0; i < localCapacity; i++ {
		require.NoError(t, l.Enqueue(ctx, "x"))
	}
	assert.ErrorIs(t, l.Enqueue(ctx, "overflow"), ErrFull)
}

func TestSelectFallsBackToLocal(t *testing.T) {
	ctx := context.Background()

	b := Select(ctx, false, "redis://localhost:6379/0")
	assert.Equal(t, "local", b.Kind(), "disabled flag keeps the local queue")

	// Enabled but unreachable: probe fails, selection falls back.
	b = Select(ctx, true, "redis://127.0.0.1:1/0")
	assert.Equal(t, "local", b.Kind())
}
