package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"embedq/internal/blob"
	"embedq/internal/dispatch"
	"embedq/internal/embed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	dim     int
	modelID string
	err     error
	short   bool
}

func (f *fakeEmbedder) Embed(_ context.Context, chunks []string) (*embed.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := len(chunks)
	if f.short {
		n--
	}
	vecs := make([][]float32, n)
	for i := range vecs {
		vecs[i] = make([]float32, f.dim)
	}
	return &embed.Result{Vectors: vecs, Dim: f.dim}, nil
}

func (f *fakeEmbedder) ModelID() string { return f.modelID }

func newTestWorker(t *testing.T, e embed.Embedder) *Worker {
	t.Helper()
	root := t.TempDir()
	inputs, err := blob.NewStore(filepath.Join(root, "inputs"), ".bin")
	require.NoError(t, err)
	outputs, err := blob.NewStore(filepath.Join(root, "outputs"), ".blob")
	require.NoError(t, err)

	return &Worker{
		Repo:    newTestRepo(t),
		Backend: dispatch.NewLocal(),
		Inputs:  inputs,
		Outputs: outputs,
		Provider: embed.NewProvider(func() (embed.Embedder, error) {
			return e, nil
		}),
	}
}

func submit(t *testing.T, w *Worker, content []byte) *Job {
	t.Helper()
	checksum, err := w.Inputs.Put(content)
	require.NoError(t, err)
	j := New(checksum)
	require.NoError(t, w.Repo.Create(j))
	return j
}

func TestWorkerCompletesJob(t *testing.T) {
	w := newTestWorker(t, embed.NewHashEmbedder("hash-768-v1"))
	j := submit(t, w, []byte("# Title\n\nhello world\n"))

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, 2, got.ChunkCount) // "Title" and "hello world"
	assert.Equal(t, 768, got.VectorDim)
	assert.Equal(t, "hash-768-v1", got.ModelID)
	assert.Empty(t, got.ErrorMessage)

	// Output checksum matches the exact bytes written.
	payload, err := w.Outputs.Get(got.OutputChecksum)
	require.NoError(t, err)
	assert.Equal(t, blob.Checksum(payload), got.OutputChecksum)
	assert.Equal(t, w.Outputs.Path(got.OutputChecksum), got.BlobPath)
}

func TestWorkerEmbedderFailure(t *testing.T) {
	w := newTestWorker(t, &fakeEmbedder{err: errors.New("model exploded")})
	j := submit(t, w, []byte("some text"))

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "model exploded")
	assert.Empty(t, got.BlobPath)
	assert.Empty(t, got.OutputChecksum)
	// progress stays where it was when the embedder blew up
	assert.Equal(t, 40, got.Progress)
}

func TestWorkerMalformedResult(t *testing.T) {
	w := newTestWorker(t, &fakeEmbedder{dim: 8, modelID: "m", short: true})
	j := submit(t, w, []byte("one\ntwo\n"))

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "malformed")
}

func TestWorkerMissingInputBlob(t *testing.T) {
	w := newTestWorker(t, &fakeEmbedder{dim: 8, modelID: "m"})
	j := New("0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, w.Repo.Create(j))

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "input blob missing")
}

func TestWorkerUnknownJobIDIsLoggedOnly(t *testing.T) {
	w := newTestWorker(t, &fakeEmbedder{dim: 8, modelID: "m"})

	assert.NotPanics(t, func() {
		w.handle(context.Background(), "no-such-job")
	})
}

func TestWorkerBlankDocumentGetsPlaceholderChunk(t *testing.T) {
	w := newTestWorker(t, embed.NewHashEmbedder("m"))
	j := submit(t, w, []byte("\n\n   \n\t\n"))

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 1, got.ChunkCount)
}

func TestWorkerInvalidEncodingIsLossyNotFatal(t *testing.T) {
	w := newTestWorker(t, embed.NewHashEmbedder("m"))
	j := submit(t, w, []byte{0xff, 0xfe, 'h', 'i'})

	w.handle(context.Background(), j.ID)

	got, err := w.Repo.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
}

func TestWorkerIdenticalContentSharesInputBlob(t *testing.T) {
	w := newTestWorker(t, embed.NewHashEmbedder("m"))
	j1 := submit(t, w, []byte("same document"))
	j2 := submit(t, w, []byte("same document"))

	assert.NotEqual(t, j1.ID, j2.ID)
	assert.Equal(t, j1.InputChecksum, j2.InputChecksum)

	w.handle(context.Background(), j1.ID)
	w.handle(context.Background(), j2.ID)

	for _, id := range []string{j1.ID, j2.ID} {
		got, err := w.Repo.Get(id)
		require.NoError(t, err)
		assert.Equal(t, StatusDone, got.Status)
	}
}

func TestWorkerRunDrainsQueue(t *testing.T) {
	w := newTestWorker(t, embed.NewHashEmbedder("m"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j1 := submit(t, w, []byte("first"))
	j2 := submit(t, w, []byte("second"))
	require.NoError(t, w.Backend.Enqueue(ctx, j1.ID))
	require.NoError(t, w.Backend.Enqueue(ctx, j2.ID))

	go w.Run(ctx)

	require.Eventually(t, func() bool {
		for _, id := range []string{j1.ID, j2.ID} {
			got, err := w.Repo.Get(id)
			if err != nil || got.Status != StatusDone {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)
}
