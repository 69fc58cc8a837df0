package memory

import (
	"context"
	"fmt"
	"time"
)

// Record is one stored situation or outcome. Records are created on
// every store call and never mutated or deleted afterwards. The index
// grows without bound; bounding it is a known capacity risk owned by
// the operator, not this package.
type Record struct {
	// ID is unique and roughly time-ordered.
	ID string

	// Text is the natural-language description that was embedded.
	Text string

	// Embedding is the fixed-dimension vector for Text.
	Embedding []float32

	// Metadata carries arbitrary tags (record type, success flag,
	// timestamps). String-valued to match what vector backends index.
	Metadata map[string]string

	CreatedAt time.Time
}

// SearchResult is one ranked hit from a similarity search.
// Score is a monotonically-decreasing function of embedding distance,
// bounded in (0,1], highest first.
type SearchResult struct {
	ID       string
	Text     string
	Score    float64
	Metadata map[string]string
}

// Stats describes the state of the memory store.
type Stats struct {
	Backend      string
	TotalRecords int
	Dimension    int
}

// Store is the vector index backend.
// Implementations: chromem.Store (embedded), redisvec.Store (remote).
type Store interface {
	// Add appends a record with its embedding to the index.
	Add(ctx context.Context, rec Record) error

	// Search returns up to topK records nearest to the embedding,
	// highest score first. A filter restricts hits to records whose
	// metadata matches every given key/value. Fewer than topK indexed
	// records returns all of them.
	Search(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]SearchResult, error)

	// Count returns the number of indexed records.
	Count() int

	// Name identifies the backend for stats and logs.
	Name() string

	// Close releases backend resources.
	Close() error
}

// Embedder converts text to vector embeddings.
// Implementations: mock.Embedder (tests/local), onnx.Embedder
// (all-MiniLM-L6-v2, build tag onnx).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// StoreError wraps a failure on the store path. Losing a memory write
// is a data-integrity problem, so unlike search these propagate to
// the caller.
type StoreError struct {
	Op  string // "embed" or "index"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("memory store (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
