// Package embed defines the processor contract: cleaned text chunks in,
// fixed-dimension vectors out. The actual model is pluggable; the service
// only relies on this interface.
package embed

import (
	"context"
	"fmt"
	"sync"
)

// Result is the output of one embedding run. Vectors is ordered like the
// input chunks and every vector has length Dim.
type Result struct {
	Vectors [][]float32
	Dim     int
}

type Embedder interface {
	// Embed must return exactly one vector per chunk or an error. The
	// worker guarantees chunks is non-empty.
	Embed(ctx context.Context, chunks []string) (*Result, error)
	ModelID() string
}

// Factory builds the embedder. Construction can be expensive (model load,
// remote handshake), so the Provider below runs it at most once per
// process on the success path.
type Factory func() (Embedder, error)

// Provider is the process-wide embedder handle. Lazily constructed and
// safe for concurrent use. Only a successful construction is cached: a
// failed one is retried on the next Get, so a transient fault (a model
// server still warming up) does not poison the process.
type Provider struct {
	mu      sync.Mutex
	factory Factory
	current Embedder
}

func NewProvider(factory Factory) *Provider {
	return &Provider{factory: factory}
}

func (p *Provider) Get() (Embedder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		return p.current, nil
	}

	e, err := p.factory()
	if err != nil {
		return nil, fmt.Errorf("embed: build embedder: %w", err)
	}
	p.current = e
	return e, nil
}
