package memory

import "time"

// Config holds Store tuning parameters. Zero fields fall back to the
// corresponding DefaultConfig value.
type Config struct {
	// WorkingLimit is the working-memory token budget.
	WorkingLimit int

	// ShortTermLimit is the short-term-memory token budget.
	ShortTermLimit int

	// LongTermCeiling is the absolute long-term token ceiling; exceeding it
	// triggers emergency merging.
	LongTermCeiling int

	// SimilarityThreshold is the minimum cosine similarity for merging two
	// blocks into one derived block.
	SimilarityThreshold float64

	// PromotionThreshold is the access count at which a block moves one
	// level up.
	PromotionThreshold int

	// CleanupInterval is the number of store operations between retention
	// sweeps. Operation-driven rather than time-driven so behavior stays
	// deterministic.
	CleanupInterval int

	// MinPoolSize is the demotion floor: eviction never drains a pool below
	// this many blocks.
	MinPoolSize int

	// RetentionPeriod is how long non-nexus long-term blocks are kept before
	// the retention sweep removes them.
	RetentionPeriod time.Duration
}

// DefaultConfig provides sensible defaults for local use.
var DefaultConfig = &Config{
	WorkingLimit:        8192,
	ShortTermLimit:      128000,
	LongTermCeiling:     512000,
	SimilarityThreshold: 0.85,
	PromotionThreshold:  5,
	CleanupInterval:     1000,
	MinPoolSize:         3,
	RetentionPeriod:     7 * 24 * time.Hour,
}

func (c Config) withDefaults() Config {
	d := *DefaultConfig
	if c.WorkingLimit <= 0 {
		c.WorkingLimit = d.WorkingLimit
	}
	if c.ShortTermLimit <= 0 {
		c.ShortTermLimit = d.ShortTermLimit
	}
	if c.LongTermCeiling <= 0 {
		c.LongTermCeiling = d.LongTermCeiling
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = d.SimilarityThreshold
	}
	if c.PromotionThreshold <= 0 {
		c.PromotionThreshold = d.PromotionThreshold
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.MinPoolSize <= 0 {
		c.MinPoolSize = d.MinPoolSize
	}
	if c.RetentionPeriod <= 0 {
		c.RetentionPeriod = d.RetentionPeriod
	}
	return c
}
