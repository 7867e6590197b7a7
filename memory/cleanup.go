package memory

import (
	"context"
	"log"
)

// maybeCleanup runs the retention sweep every CleanupInterval operations.
// Caller holds s.mu.
func (s *Store) maybeCleanup(ctx context.Context) error {
	s.opCount++
	if s.opCount%uint64(s.cfg.CleanupInterval) != 0 {
		return nil
	}
	return s.cleanup(ctx)
}

// cleanup removes long-term blocks older than the retention period, hands
// them to the archiver if one is configured, then runs one merge pass over
// each pool. Nexus points are retained indefinitely. Caller holds s.mu.
func (s *Store) cleanup(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.RetentionPeriod)

	var expired []Block
	for i := len(s.longTerm.blocks) - 1; i >= 0; i-- {
		b := s.longTerm.blocks[i]
		if b.Nexus || !b.CreatedAt.Before(cutoff) {
			continue
		}
		expired = append(expired, snapshot(s.longTerm.removeAt(i)))
	}

	if len(expired) > 0 {
		log.Printf("[MEMORY] retention sweep evicted %d long-term blocks", len(expired))
		if s.archiver != nil {
			if err := s.archiver.Archive(ctx, expired); err != nil {
				// Blocks are already out of the pools; losing them is the
				// same outcome as having no archiver at all.
				log.Printf("[MEMORY] archive of %d evicted blocks failed: %v", len(expired), err)
			}
		}
	}

	for _, p := range s.pools() {
		if _, err := s.mergeOnce(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
