package memory

import (
	"context"
	"log"
)

// mergeOnce collapses the first sufficiently similar pair in p into a single
// derived block. Reports whether a merge happened. O(n²) over the pool,
// which stays small because pools are token-bounded. Caller holds s.mu.
func (s *Store) mergeOnce(ctx context.Context, p *pool) (bool, error) {
	for i := 0; i < len(p.blocks); i++ {
		for j := i + 1; j < len(p.blocks); j++ {
			sim := cosineSimilarity(p.blocks[i].Embedding, p.blocks[j].Embedding)
			if sim < s.cfg.SimilarityThreshold {
				continue
			}
			if err := s.mergePair(ctx, p, i, j); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// mergePair replaces p.blocks[i] and p.blocks[j] with one derived block.
// Tokens and embedding are recomputed from the concatenated content rather
// than summed, and nexus status carries over to the replacement.
func (s *Store) mergePair(ctx context.Context, p *pool, i, j int) error {
	a, b := p.blocks[i], p.blocks[j]

	content := a.Content + " | " + b.Content
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return err
	}

	// Higher index first so i stays valid.
	p.removeAt(j)
	p.removeAt(i)

	wasNexus := a.Nexus || b.Nexus
	delete(s.nexus, a.ID)
	delete(s.nexus, b.ID)

	merged := s.newBlock(content, SignificanceDerived, embedding)
	merged.AccessCount = a.AccessCount
	if b.AccessCount > merged.AccessCount {
		merged.AccessCount = b.AccessCount
	}
	merged.CreatedAt = a.CreatedAt
	if b.CreatedAt.After(merged.CreatedAt) {
		merged.CreatedAt = b.CreatedAt
	}
	merged.LastAccessed = a.LastAccessed
	if b.LastAccessed.After(merged.LastAccessed) {
		merged.LastAccessed = b.LastAccessed
	}

	p.insert(merged)
	if wasNexus {
		merged.Nexus = true
		s.nexus[merged.ID] = merged
	}

	s.merges++
	s.generations++
	log.Printf("[MEMORY] merged blocks %d+%d into %d (%s, %d tokens)",
		a.ID, b.ID, merged.ID, merged.Label, merged.Tokens)
	return nil
}

// Compact merges near-duplicate blocks in every pool until no similar pairs
// remain. Useful as an explicit maintenance call between conversations; the
// store also compacts opportunistically during retention sweeps.
func (s *Store) Compact(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pools() {
		for {
			merged, err := s.mergeOnce(ctx, p)
			if err != nil {
				return err
			}
			if !merged {
				break
			}
		}
	}
	return nil
}
