// Package memory provides the embedding-backed similarity store that
// informs and records pipeline decisions.
//
// Free-text descriptions of situations and outcomes are embedded into
// fixed-dimension vectors and indexed for nearest-neighbor lookup.
// Retrieval is advisory: a search failure degrades to an empty result
// set and never blocks the decision pipeline. Storage is the one loud
// path, since a lost record is a lost audit trail.
//
// Architecture:
//   - Store: vector index backend (chromem-go embedded, Redis remote)
//   - Embedder: text-to-vector conversion (ONNX local, mock for tests)
//   - Manager: orchestrates embedding, id assignment, and retrieval
//
// Backend selection is configuration, not behavior: both stores sit
// behind the same contract.
package memory
