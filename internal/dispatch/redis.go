package dispatch

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// queueKey is the Redis list holding pending job ids. Prefixed to avoid
// collisions with anything else living in the same Redis.
const queueKey = "embedq:queue:jobs"

// Redis is the broker-backed dispatch backend. The list survives process
// restarts and may be consumed by any number of worker processes;
// delivery semantics beyond that are Redis's business.
type Redis struct {
	client *goredis.Client
}

func NewRedis(url string) (*Redis, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dispatch: parse redis url: %w", err)
	}
	return &Redis{client: goredis.NewClient(opts)}, nil
}

// Ping probes connectivity. Used for backend selection at startup and by
// the health endpoint afterwards.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Enqueue(ctx context.Context, jobID string) error {
	if err := r.client.LPush(ctx, queueKey, jobID).Err(); err != nil {
		return fmt.Errorf("dispatch: enqueue %s: %w", jobID, err)
	}
	return nil
}

func (r *Redis) Dequeue(ctx context.Context) (string, error) {
	vals, err := r.client.BRPop(ctx, dequeueWait, queueKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrEmpty
		}
		return "", fmt.Errorf("dispatch: dequeue: %w", err)
	}
	// BRPop returns [key, value].
	return vals[1], nil
}

func (r *Redis) Kind() string { return "redis" }

func (r *Redis) Close() error { return r.client.Close() }
