package memory

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Manager is the embedding memory facade the pipeline talks to.
// It embeds text, assigns ids, and delegates indexing to the Store.
type Manager struct {
	store    Store
	embedder Embedder
	seq      atomic.Uint64
}

// NewManager wires a store and an embedder together.
func NewManager(store Store, embedder Embedder) *Manager {
	return &Manager{
		store:    store,
		embedder: embedder,
	}
}

// Store embeds text and appends it to the index. An empty id gets a
// generated one. Failures propagate as *StoreError; the caller
// decides whether a lost record is fatal.
func (m *Manager) Store(ctx context.Context, text string, metadata map[string]string, id string) (string, error) {
	embedding, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return "", &StoreError{Op: "embed", Err: err}
	}

	if id == "" {
		id = m.nextID()
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	rec := Record{
		ID:        id,
		Text:      text,
		Embedding: embedding,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}

	if err := m.store.Add(ctx, rec); err != nil {
		return "", &StoreError{Op: "index", Err: err}
	}

	log.Printf("[MEMORY] Stored record %s (%d total)", id, m.store.Count())
	return id, nil
}

// Search returns up to topK similar past records, highest score
// first. Retrieval is advisory: any failure degrades to an empty
// result set with a warning so the pipeline can proceed without it.
func (m *Manager) Search(ctx context.Context, query string, topK int, filter map[string]string) []SearchResult {
	embedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[MEMORY] WARN: embed query failed: %v", err)
		return nil
	}

	results, err := m.store.Search(ctx, embedding, topK, filter)
	if err != nil {
		log.Printf("[MEMORY] WARN: search failed: %v", err)
		return nil
	}

	log.Printf("[MEMORY] Retrieved %d records for query: %q", len(results), truncate(query, 50))
	return results
}

// Stats reports backend name, record count, and embedding dimension.
func (m *Manager) Stats() Stats {
	return Stats{
		Backend:      m.store.Name(),
		TotalRecords: m.store.Count(),
		Dimension:    m.embedder.Dimensions(),
	}
}

// StoreDecision records a pipeline decision outcome for future
// retrieval.
func (m *Manager) StoreDecision(ctx context.Context, kind string, reasoning string, outcome map[string]string) (string, error) {
	text := fmt.Sprintf("Decision: %s. Reasoning: %s", kind, reasoning)

	metadata := map[string]string{
		"type":          "decision",
		"decision_type": kind,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range outcome {
		metadata["outcome_"+k] = v
	}

	return m.Store(ctx, text, metadata, "")
}

// StoreExperiment records an experiment result for future retrieval.
func (m *Manager) StoreExperiment(ctx context.Context, experimentType string, description string, summary string, success bool) (string, error) {
	text := fmt.Sprintf("%s: %s. Results: %s", experimentType, description, summary)

	metadata := map[string]string{
		"type":            "experiment",
		"experiment_type": experimentType,
		"success":         fmt.Sprintf("%t", success),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}

	return m.Store(ctx, text, metadata, "")
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.store.Close()
}

// nextID builds a time-prefixed, roughly monotonic identifier.
func (m *Manager) nextID() string {
	n := m.seq.Add(1)
	return fmt.Sprintf("mem_%s_%d", time.Now().UTC().Format("20060102150405"), n)
}

// truncate shortens text for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
