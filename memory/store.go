package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stratamem/strata-go-sdk/memory/embedder/hashing"
)

// Store is the tiered memory cache. All operations are guarded by a single
// mutex: eviction, promotion and merge cross pool boundaries, so there is
// exactly one critical section.
type Store struct {
	mu sync.Mutex

	cfg       Config
	tokenizer Tokenizer
	embedder  Embedder
	archiver  Archiver

	working   *pool
	shortTerm *pool
	longTerm  *pool

	// nexus indexes eviction-exempt blocks by id.
	nexus map[int64]*Block

	nextID int64

	promotions  uint64
	demotions   uint64
	merges      uint64
	retrievals  uint64
	generations uint64

	opCount       uint64
	lastRetrieval time.Duration

	now func() time.Time
}

// pool is one ordered tier. tokens is maintained incrementally on every
// insert and remove so budget checks never rescan the slice.
type pool struct {
	level  Level
	blocks []*Block
	tokens int
}

func (p *pool) insert(b *Block) {
	b.Level = p.level
	p.blocks = append(p.blocks, b)
	p.tokens += b.Tokens
}

func (p *pool) removeAt(i int) *Block {
	b := p.blocks[i]
	p.blocks = append(p.blocks[:i], p.blocks[i+1:]...)
	p.tokens -= b.Tokens
	return b
}

// Option configures a Store.
type Option func(*Store)

// WithTokenizer replaces the default word-count tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(s *Store) { s.tokenizer = t }
}

// WithEmbedder replaces the default hash-bucket embedder.
func WithEmbedder(e Embedder) Option {
	return func(s *Store) { s.embedder = e }
}

// WithArchiver sets the sink for blocks aged out of long-term memory.
func WithArchiver(a Archiver) Option {
	return func(s *Store) { s.archiver = a }
}

// New creates a Store. A nil cfg uses DefaultConfig; zero cfg fields fall
// back to their defaults individually.
func New(cfg *Config, opts ...Option) *Store {
	resolved := *DefaultConfig
	if cfg != nil {
		resolved = cfg.withDefaults()
	}
	s := &Store{
		cfg:       resolved,
		tokenizer: WordCount{},
		embedder:  hashing.New(),
		working:   &pool{level: LevelWorking},
		shortTerm: &pool{level: LevelShortTerm},
		longTerm:  &pool{level: LevelLongTerm},
		nexus:     make(map[int64]*Block),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts content as a new working-memory block and returns its id.
// Blocks with user, llm or system significance are registered as nexus
// points at creation. The admission policy runs synchronously before Add
// returns, so the working pool is back under budget (barring the
// MinPoolSize floor) by the time the caller sees the id.
func (s *Store) Add(ctx context.Context, content string, significance SignificanceType) (int64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("add: empty content: %w", ErrInvalidInput)
	}
	if !significance.valid() {
		return 0, fmt.Errorf("add: significance %q: %w", significance, ErrInvalidInput)
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	block := s.newBlock(content, significance, embedding)
	s.working.insert(block)
	s.generations++

	if significance != SignificanceDerived {
		block.Nexus = true
		s.nexus[block.ID] = block
	}

	if err := s.enforceBudgets(ctx); err != nil {
		return 0, err
	}
	if err := s.maybeCleanup(ctx); err != nil {
		return 0, err
	}
	return block.ID, nil
}

// newBlock assembles a block and assigns the next id. Caller holds s.mu.
func (s *Store) newBlock(content string, significance SignificanceType, embedding []float32) *Block {
	now := s.now()
	b := &Block{
		ID:           s.nextID,
		Content:      content,
		Tokens:       s.tokenizer.CountTokens(content),
		Significance: significance,
		Embedding:    normalize(embedding),
		Label:        threeWordLabel(content),
		CreatedAt:    now,
		LastAccessed: now,
	}
	s.nextID++
	return b
}

// enforceBudgets is the admission policy: demote out of working, then out of
// short-term, then emergency-merge long-term. Caller holds s.mu.
func (s *Store) enforceBudgets(ctx context.Context) error {
	for s.working.tokens > s.cfg.WorkingLimit && len(s.working.blocks) > s.cfg.MinPoolSize {
		s.demote(s.working, s.shortTerm)
	}
	for s.shortTerm.tokens > s.cfg.ShortTermLimit && len(s.shortTerm.blocks) > s.cfg.MinPoolSize {
		s.demote(s.shortTerm, s.longTerm)
	}
	for s.longTerm.tokens > s.cfg.LongTermCeiling && len(s.longTerm.blocks) >= 3 {
		merged, err := s.mergeOnce(ctx, s.longTerm)
		if err != nil {
			return err
		}
		if !merged {
			log.Printf("[MEMORY] long-term over ceiling (%d tokens) with no pair above similarity %.2f",
				s.longTerm.tokens, s.cfg.SimilarityThreshold)
			break
		}
	}
	return nil
}

// demote moves the least relevant block of src into dst. Least relevant is
// lowest access count, ties broken by oldest last access. Nexus points
// participate: demotion changes level, never deletes.
func (s *Store) demote(src, dst *pool) {
	victim := 0
	for i, b := range src.blocks[1:] {
		v := src.blocks[victim]
		if b.AccessCount < v.AccessCount ||
			(b.AccessCount == v.AccessCount && b.LastAccessed.Before(v.LastAccessed)) {
			victim = i + 1
		}
	}
	b := src.removeAt(victim)
	dst.insert(b)
	s.demotions++
}

// RetrieveRelevant returns the maxBlocks blocks most similar to query across
// all pools, most similar first; ties go to the more recently created block.
// Returned blocks have their access counters bumped, and any block crossing
// the promotion threshold moves one level up with its counter reset.
// An empty store yields an empty result, not an error.
func (s *Store) RetrieveRelevant(ctx context.Context, query string, maxBlocks int) ([]Block, error) {
	start := time.Now()

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	queryEmbedding = normalize(queryEmbedding)

	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		block *Block
		sim   float64
	}
	var candidates []scored
	for _, p := range s.pools() {
		for _, b := range p.blocks {
			candidates = append(candidates, scored{b, cosineSimilarity(queryEmbedding, b.Embedding)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].block.CreatedAt.After(candidates[j].block.CreatedAt)
	})

	if maxBlocks > len(candidates) {
		maxBlocks = len(candidates)
	}
	if maxBlocks < 0 {
		maxBlocks = 0
	}

	now := s.now()
	results := make([]Block, 0, maxBlocks)
	for _, c := range candidates[:maxBlocks] {
		b := c.block
		b.AccessCount++
		b.LastAccessed = now
		if b.AccessCount >= s.cfg.PromotionThreshold {
			s.promote(b)
		}
		results = append(results, snapshot(b))
	}

	s.retrievals++
	s.lastRetrieval = time.Since(start)

	if err := s.maybeCleanup(ctx); err != nil {
		return results, err
	}
	return results, nil
}

// promote moves b one level up and resets its access count. Blocks already
// in working memory stay put and keep their count.
func (s *Store) promote(b *Block) {
	switch b.Level {
	case LevelLongTerm:
		s.moveBlock(b, s.longTerm, s.shortTerm)
	case LevelShortTerm:
		s.moveBlock(b, s.shortTerm, s.working)
	default:
		return
	}
	b.AccessCount = 0
	s.promotions++
}

func (s *Store) moveBlock(b *Block, src, dst *pool) {
	for i, cand := range src.blocks {
		if cand.ID == b.ID {
			dst.insert(src.removeAt(i))
			return
		}
	}
}

// Get returns a copy of the block with the given id from any pool. Direct
// lookup does not count as an access.
func (s *Store) Get(id int64) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.findBlock(id); b != nil {
		return snapshot(b), nil
	}
	return Block{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
}

func (s *Store) findBlock(id int64) *Block {
	for _, p := range s.pools() {
		for _, b := range p.blocks {
			if b.ID == id {
				return b
			}
		}
	}
	return nil
}

func (s *Store) pools() [3]*pool {
	return [3]*pool{s.working, s.shortTerm, s.longTerm}
}
