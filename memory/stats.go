package memory

import "time"

// PoolStats describes one pool inside a Stats snapshot.
type PoolStats struct {
	// Blocks is the number of blocks in the pool.
	Blocks int

	// Tokens is the pool's current token total.
	Tokens int

	// Limit is the pool's configured token budget.
	Limit int

	// Utilization is Tokens divided by Limit.
	Utilization float64
}

// Stats is a consistent point-in-time snapshot of store state. Repeated
// calls without intervening mutation return identical values.
type Stats struct {
	Working   PoolStats
	ShortTerm PoolStats
	LongTerm  PoolStats

	// Cumulative operation counters for the process lifetime.
	Promotions  uint64
	Demotions   uint64
	Merges      uint64
	Retrievals  uint64
	Generations uint64

	// NexusPoints counts eviction-exempt blocks by significance type.
	NexusPoints map[SignificanceType]int

	// LastRetrieval is the wall-clock duration of the most recent
	// RetrieveRelevant call.
	LastRetrieval time.Duration
}

// NexusTotal sums nexus points across all significance types.
func (st Stats) NexusTotal() int {
	total := 0
	for _, n := range st.NexusPoints {
		total += n
	}
	return total
}

// Stats returns a snapshot of pool occupancy, operation counters and nexus
// registrations. Pure read: it never mutates the store and is safe to call
// at any time.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	nexus := make(map[SignificanceType]int)
	for _, b := range s.nexus {
		nexus[b.Significance]++
	}

	return Stats{
		Working:       poolStats(s.working, s.cfg.WorkingLimit),
		ShortTerm:     poolStats(s.shortTerm, s.cfg.ShortTermLimit),
		LongTerm:      poolStats(s.longTerm, s.cfg.LongTermCeiling),
		Promotions:    s.promotions,
		Demotions:     s.demotions,
		Merges:        s.merges,
		Retrievals:    s.retrievals,
		Generations:   s.generations,
		NexusPoints:   nexus,
		LastRetrieval: s.lastRetrieval,
	}
}

func poolStats(p *pool, limit int) PoolStats {
	ps := PoolStats{Blocks: len(p.blocks), Tokens: p.tokens, Limit: limit}
	if limit > 0 {
		ps.Utilization = float64(p.tokens) / float64(limit)
	}
	return ps
}
