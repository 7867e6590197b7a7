// Package memory provides a tiered, in-process cache for conversational
// context.
//
// Content is stored as blocks spread over three pools (working, short-term
// and long-term memory), each with a token budget. New blocks enter working
// memory; budget pressure demotes the least relevant blocks downward, and
// repeated access promotes blocks back up. Near-duplicate blocks are merged
// by embedding similarity, and high-significance blocks ("nexus points") are
// exempt from eviction.
//
// Architecture:
//   - Store: owns the pools, the nexus index and the admission/eviction,
//     promotion and merge policy
//   - Embedder: text-to-vector conversion (hash-bucket fallback for local
//     use, ONNX model for real semantic search)
//   - Tokenizer: token-cost estimation (word count fallback)
//   - Archiver: optional sink for blocks aged out of long-term memory
//
// The Store is safe for concurrent use; a single mutex covers every
// operation because eviction, promotion and merge all touch cross-pool
// state that must never be observed half-updated.
package memory
