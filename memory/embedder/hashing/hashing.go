// Package hashing provides the default embedder: a deterministic
// hash-bucket bag-of-words vectorizer. No model files, no network, and two
// texts sharing words land in overlapping buckets, so cosine similarity is
// meaningful enough for local development and tests.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const defaultDimensions = 256

// Embedder hashes lowercased words into a fixed number of buckets and
// normalizes the resulting count vector to unit length.
type Embedder struct {
	dimensions int
}

// New creates a hash-bucket embedder with the default dimensionality.
func New() *Embedder {
	return &Embedder{dimensions: defaultDimensions}
}

// NewWithDimensions creates an embedder with a custom bucket count.
// More buckets means fewer collisions between unrelated words.
func NewWithDimensions(dims int) *Embedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &Embedder{dimensions: dims}
}

// Embed converts text to a unit-norm bag-of-words vector. Deterministic:
// the same text always produces the same vector. Never fails.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()[]")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%uint32(e.dimensions)]++
	}
	return normalize(vec), nil
}

// Dimensions returns the bucket count.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
