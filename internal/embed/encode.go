package embed

import (
	"encoding/json"
	"fmt"
)

// Envelope is the serialized form of a completed embedding run, the exact
// bytes stored in the output blob store. Field order is fixed, so equal
// results always produce byte-identical blobs and therefore one checksum.
type Envelope struct {
	ModelID    string      `json:"model_id"`
	Dim        int         `json:"dim"`
	ChunkCount int         `json:"chunk_count"`
	Vectors    [][]float32 `json:"vectors"`
}

func Encode(modelID string, r *Result) ([]byte, error) {
	env := Envelope{
		ModelID:    modelID,
		Dim:        r.Dim,
		ChunkCount: len(r.Vectors),
		Vectors:    r.Vectors,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("embed: encode result: %w", err)
	}
	return data, nil
}
