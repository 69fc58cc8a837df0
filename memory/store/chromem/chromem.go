// Package chromem implements the local memory backend on top of
// chromem-go, a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/auroraml/aurora/memory"
)

const collectionName = "aurora_memory"

// Store keeps the whole index in process memory. Suitable for a
// single-node deployment; the Redis backend covers the remote case.
type Store struct {
	db  *chromem.DB
	col *chromem.Collection
	mu  sync.Mutex // serializes appends; chromem reads are safe
}

// New creates an empty embedded index.
func New() (*Store, error) {
	db := chromem.NewDB()

	col, err := db.CreateCollection(
		collectionName,
		nil, // no collection metadata
		nil, // embeddings are provided by the manager, not computed here
	)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{db: db, col: col}, nil
}

// Add appends one record to the index.
func (s *Store) Add(ctx context.Context, rec memory.Record) error {
	metadata := make(map[string]string, len(rec.Metadata)+1)
	for k, v := range rec.Metadata {
		metadata[k] = v
	}
	metadata["created_at"] = rec.CreatedAt.Format(time.RFC3339)

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Text,
		Embedding: rec.Embedding,
		Metadata:  metadata,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Search returns up to topK nearest records. chromem rejects queries
// asking for more results than documents, so the limit is clamped and
// downshifted on the way in.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]memory.SearchResult, error) {
	count := s.col.Count()
	if count == 0 || topK <= 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	var results []chromem.Result
	for limit := topK; limit >= 1; limit-- {
		var err error
		results, err = s.col.QueryEmbedding(ctx, embedding, limit, filter, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if limit == 1 {
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]memory.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, memory.SearchResult{
			ID:       r.ID,
			Text:     r.Content,
			Score:    similarityToScore(r.Similarity),
			Metadata: r.Metadata,
		})
	}
	return out, nil
}

// Count returns the number of indexed records.
func (s *Store) Count() int {
	return s.col.Count()
}

// Name identifies this backend in stats.
func (s *Store) Name() string { return "chromem" }

// Close is a no-op; chromem holds everything in memory.
func (s *Store) Close() error { return nil }

// similarityToScore maps cosine similarity to the (0,1] score
// contract via 1/(1+distance) with distance = 1 - similarity.
func similarityToScore(similarity float32) float64 {
	distance := 1 - float64(similarity)
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}

// isInsufficientDocsError matches chromem's complaint when nResults
// exceeds the (possibly filtered) document count.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
