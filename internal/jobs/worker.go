package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"embedq/internal/blob"
	"embedq/internal/dispatch"
	"embedq/internal/embed"
)

// Worker consumes job ids from the dispatch backend and drives each job
// to a terminal state. One Run loop per local backend instance; a failure
// in one job never stops the loop.
type Worker struct {
	Repo     *Repo
	Backend  dispatch.Backend
	Inputs   *blob.Store
	Outputs  *blob.Store
	Provider *embed.Provider
}

func (w *Worker) Run(ctx context.Context) {
	for {
		id, err := w.Backend.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, dispatch.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker dequeue error: %v\n", err)
			time.Sleep(time.Second)
			continue
		}
		w.handle(ctx, id)
	}
}

// handle shields the loop: a panic out of process is logged and the loop
// resumes after a short backoff.
func (w *Worker) handle(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker panic on job %s: %v\n", id, r)
			time.Sleep(time.Second)
		}
	}()
	w.process(ctx, id)
}

func (w *Worker) process(ctx context.Context, id string) {
	job, err := w.Repo.Get(id)
	if err != nil {
		// Dequeued an id with no record behind it. Log and move on.
		log.Printf("worker: job %s not loadable: %v\n", id, err)
		return
	}

	if err := w.Repo.MarkProcessing(id, 10); err != nil {
		log.Printf("worker: job %s not claimable: %v\n", id, err)
		return
	}
	log.Printf("worker: processing job %s\n", id)

	data, err := w.Inputs.Get(job.InputChecksum)
	if err != nil {
		w.fail(id, fmt.Sprintf("input blob missing: %s", job.InputChecksum))
		return
	}
	w.progress(id, 20)

	// Lossy decode: invalid bytes are dropped, never fatal.
	text := strings.ToValidUTF8(string(data), "")

	embedder, err := w.Provider.Get()
	if err != nil {
		w.fail(id, err.Error())
		return
	}
	w.progress(id, 30)

	chunks := Chunks(text)
	w.progress(id, 40)

	result, err := embedder.Embed(ctx, chunks)
	if err != nil {
		w.fail(id, err.Error())
		return
	}
	if result == nil || result.Dim <= 0 || len(result.Vectors) != len(chunks) {
		w.fail(id, "embedder returned malformed result")
		return
	}
	w.progress(id, 80)

	payload, err := embed.Encode(embedder.ModelID(), result)
	if err != nil {
		w.fail(id, err.Error())
		return
	}

	checksum, err := w.Outputs.Put(payload)
	if err != nil {
		w.fail(id, fmt.Sprintf("store output: %v", err))
		return
	}

	err = w.Repo.MarkDone(id, DoneResult{
		OutputChecksum: checksum,
		BlobPath:       w.Outputs.Path(checksum),
		VectorDim:      result.Dim,
		ChunkCount:     len(chunks),
		ModelID:        embedder.ModelID(),
	})
	if err != nil {
		log.Printf("worker: job %s done write failed: %v\n", id, err)
		return
	}
	log.Printf("worker: job %s completed (%d chunks, dim %d)\n", id, len(chunks), result.Dim)
}

func (w *Worker) progress(id string, p int) {
	if err := w.Repo.SetProgress(id, p); err != nil {
		log.Printf("worker: job %s progress update failed: %v\n", id, err)
	}
}

func (w *Worker) fail(id, msg string) {
	if err := w.Repo.MarkFailed(id, msg); err != nil {
		log.Printf("worker: job %s fail write failed: %v\n", id, err)
		return
	}
	log.Printf("worker: job %s failed: %s\n", id, msg)
}
