package hashing_test

import (
	"context"
	"math"
	"testing"

	"github.com/stratamem/strata-go-sdk/memory/embedder/hashing"
)

func TestEmbedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	e := hashing.New()

	a, err := e.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEmbedIsUnitNorm(t *testing.T) {
	e := hashing.New()
	vec, err := e.Embed(context.Background(), "some sample content for norm check")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestSharedWordsScoreHigherThanDisjoint(t *testing.T) {
	ctx := context.Background()
	e := hashing.New()

	base, _ := e.Embed(ctx, "deploy the payment service")
	related, _ := e.Embed(ctx, "restart the payment service")
	unrelated, _ := e.Embed(ctx, "lunch menu options today")

	if dot(base, related) <= dot(base, unrelated) {
		t.Errorf("related similarity %v not above unrelated %v",
			dot(base, related), dot(base, unrelated))
	}
}

func TestEmptyTextYieldsZeroVector(t *testing.T) {
	e := hashing.New()
	vec, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != e.Dimensions() {
		t.Fatalf("vector length = %d, want %d", len(vec), e.Dimensions())
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatal("empty text produced a nonzero vector")
		}
	}
}

func TestDimensions(t *testing.T) {
	if got := hashing.New().Dimensions(); got != 256 {
		t.Errorf("default dimensions = %d, want 256", got)
	}
	if got := hashing.NewWithDimensions(64).Dimensions(); got != 64 {
		t.Errorf("custom dimensions = %d, want 64", got)
	}
	if got := hashing.NewWithDimensions(-1).Dimensions(); got != 256 {
		t.Errorf("invalid dimensions fell back to %d, want 256", got)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
