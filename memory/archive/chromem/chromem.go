// Package chromem archives evicted memory blocks into a chromem-go vector
// collection, keeping them searchable by embedding after they leave the
// tiered pools.
package chromem

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/stratamem/strata-go-sdk/memory"
)

const collectionName = "memory_archive"

// Archive stores evicted blocks as documents in a chromem collection.
type Archive struct {
	db  *chromem.DB
	col *chromem.Collection
}

// New creates an in-memory archive.
func New() (*Archive, error) {
	db := chromem.NewDB()
	col, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create archive collection: %w", err)
	}
	return &Archive{db: db, col: col}, nil
}

// NewPersistent creates an archive backed by an on-disk chromem database at
// path, reusing the existing collection if one is present.
func NewPersistent(path string) (*Archive, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("open archive collection: %w", err)
	}
	return &Archive{db: db, col: col}, nil
}

// Archive stores the evicted blocks with their embeddings and metadata.
func (a *Archive) Archive(ctx context.Context, blocks []memory.Block) error {
	for _, b := range blocks {
		doc := chromem.Document{
			ID:        uuid.New().String(),
			Content:   b.Content,
			Embedding: b.Embedding,
			Metadata: map[string]string{
				"block_id":     strconv.FormatInt(b.ID, 10),
				"significance": string(b.Significance),
				"label":        b.Label,
				"tokens":       strconv.Itoa(b.Tokens),
				"created_at":   b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			},
		}
		if err := a.col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("archive block %d: %w", b.ID, err)
		}
	}
	return nil
}

// Result is a single archived block returned by Search.
type Result struct {
	Content      string
	Label        string
	Significance string
	Similarity   float32
}

// Search returns up to limit archived blocks ranked by similarity to the
// query embedding.
func (a *Archive) Search(ctx context.Context, embedding []float32, limit int) ([]Result, error) {
	if count := a.col.Count(); limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}
	found, err := a.col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}
	results := make([]Result, 0, len(found))
	for _, doc := range found {
		results = append(results, Result{
			Content:      doc.Content,
			Label:        doc.Metadata["label"],
			Significance: doc.Metadata["significance"],
			Similarity:   doc.Similarity,
		})
	}
	return results, nil
}

// Count returns the number of archived blocks.
func (a *Archive) Count() int {
	return a.col.Count()
}
