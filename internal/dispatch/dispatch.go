// Package dispatch carries job ids from the submission boundary to a
// worker. Two backends exist: an in-process FIFO and a Redis list. The
// backend is chosen once at startup and never branched on per call site.
package dispatch

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	// ErrEmpty is returned by Dequeue after its bounded wait expires with
	// nothing to hand out. Callers loop and re-check their context.
	ErrEmpty = errors.New("dispatch: queue empty")

	// ErrFull is returned by the local backend when its buffer is
	// exhausted; submitters get backpressure instead of unbounded memory.
	ErrFull = errors.New("dispatch: queue full")
)

// dequeueWait bounds every Dequeue call so workers observe shutdown
// promptly instead of blocking forever.
const dequeueWait = time.Second

const probeTimeout = time.Second

type Backend interface {
	Enqueue(ctx context.Context, jobID string) error
	// Dequeue blocks for at most dequeueWait and returns ErrEmpty when
	// nothing arrived in that window.
	Dequeue(ctx context.Context) (string, error)
	Kind() string
}

// Select picks the backend for this process: Redis when explicitly enabled
// and a short connectivity probe succeeds, otherwise the local queue.
func Select(ctx context.Context, useRedis bool, redisURL string) Backend {
	if useRedis {
		rb, err := NewRedis(redisURL)
		if err == nil {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			err = rb.Ping(probeCtx)
			cancel()
			if err == nil {
				log.Printf("dispatch: using redis backend (%s)\n", redisURL)
				return rb
			}
		}
		log.Printf("dispatch: redis unavailable (%v), falling back to local queue\n", err)
	}
	return NewLocal()
}
