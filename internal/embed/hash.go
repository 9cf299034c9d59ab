package embed

import (
	"context"
	"fmt"
	"hash/fnv"
)

const hashDim = 768

// HashEmbedder is the built-in model stand-in: deterministic vectors
// derived from an fnv64 seed per chunk. It exists so the service runs
// end-to-end without an external model server; a real deployment swaps
// the Factory for one that talks to an actual model.
type HashEmbedder struct {
	modelID string
}

func NewHashEmbedder(modelID string) *HashEmbedder {
	return &HashEmbedder{modelID: modelID}
}

func (h *HashEmbedder) ModelID() string { return h.modelID }

func (h *HashEmbedder) Embed(ctx context.Context, chunks []string) (*Result, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("embed: no chunks")
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors = append(vectors, hashVector(chunk))
	}

	return &Result{Vectors: vectors, Dim: hashDim}, nil
}

func hashVector(chunk string) []float32 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(chunk))
	state := hasher.Sum64()

	vec := make([]float32, hashDim)
	for i := range vec {
		// xorshift64 keeps the sequence deterministic per seed.
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		vec[i] = float32(int64(state%2000)-1000) / 1000
	}
	return vec
}
