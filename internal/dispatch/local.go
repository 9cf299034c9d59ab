package dispatch

import (
	"context"
	"time"
)

const localCapacity = 4096

// Local is the in-process FIFO. It is not durable: its contents die with
// the process, which is what the startup recovery pass compensates for.
// Exactly one worker goroutine is expected to consume it.
type Local struct {
	ch chan string
}

func NewLocal() *Local {
	return &Local{ch: make(chan string, localCapacity)}
}

func (l *Local) Enqueue(_ context.Context, jobID string) error {
	select {
	case l.ch <- jobID:
		return nil
	default:
		return ErrFull
	}
}

func (l *Local) Dequeue(ctx context.Context) (string, error) {
	timer := time.NewTimer(dequeueWait)
	defer timer.Stop()

	select {
	case id := <-l.ch:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ErrEmpty
	}
}

func (l *Local) Kind() string { return "local" }

// Len reports how many ids are waiting. Used by recovery tests and the
// health endpoint.
func (l *Local) Len() int { return len(l.ch) }
