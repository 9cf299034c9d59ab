package jobs

import (
	"context"
	"log"

	"embedq/internal/dispatch"
)

// Recover re-enqueues every queued job onto a freshly constructed local
// backend, in creation order. It runs once at startup, before the HTTP
// listener accepts new submissions, so a new submission's enqueue can
// never interleave with it. Jobs stuck in processing from a crashed run
// are deliberately left alone.
func Recover(ctx context.Context, repo *Repo, backend dispatch.Backend) (int, error) {
	queued, err := repo.ListQueued()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, j := range queued {
		if err := backend.Enqueue(ctx, j.ID); err != nil {
			log.Printf("recovery: enqueue job %s failed: %v\n", j.ID, err)
			continue
		}
		log.Printf("recovery: re-enqueued job %s\n", j.ID)
		n++
	}
	return n, nil
}
