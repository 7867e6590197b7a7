package memory

import "context"

// Embedder converts text to vector embeddings.
// Implementations: hashing.Embedder (deterministic fallback), cached.Embedder
// (caching decorator), onnx.Embedder (real model, build tag "onnx").
//
// Implementations should return unit-norm vectors; the store normalizes
// defensively either way. Errors propagate unmodified to the caller of the
// store operation that needed the embedding.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Tokenizer estimates the token cost of content. Implementations must be
// deterministic and monotonic with text length, and must not fail.
type Tokenizer interface {
	CountTokens(text string) int
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) int

func (f TokenizerFunc) CountTokens(text string) int { return f(text) }

// WordCount is the default tokenizer: whitespace-separated word count.
type WordCount struct{}

func (WordCount) CountTokens(text string) int { return len(splitWords(text)) }

// Archiver receives blocks evicted from long-term memory by the retention
// sweep. Nexus points are never handed to an Archiver.
// Implementations: chromem.Archive (embedded vector store), summary.Archiver
// (completion-provider compression decorator).
type Archiver interface {
	Archive(ctx context.Context, blocks []Block) error
}
