package memory

import "time"

// SignificanceType classifies the origin of a block's content.
type SignificanceType string

const (
	// SignificanceUser marks content supplied by the user.
	SignificanceUser SignificanceType = "user"

	// SignificanceLLM marks content generated by the model.
	SignificanceLLM SignificanceType = "llm"

	// SignificanceSystem marks system-level content (instructions, state).
	SignificanceSystem SignificanceType = "system"

	// SignificanceDerived marks blocks produced by merging similar blocks.
	SignificanceDerived SignificanceType = "derived"
)

func (s SignificanceType) valid() bool {
	switch s {
	case SignificanceUser, SignificanceLLM, SignificanceSystem, SignificanceDerived:
		return true
	}
	return false
}

// Level identifies the pool a block currently lives in.
type Level int

const (
	LevelWorking Level = iota
	LevelShortTerm
	LevelLongTerm
)

func (l Level) String() string {
	switch l {
	case LevelWorking:
		return "working"
	case LevelShortTerm:
		return "short_term"
	case LevelLongTerm:
		return "long_term"
	}
	return "unknown"
}

// Block is the atomic unit of stored context.
//
// Blocks returned from Store methods are snapshots; mutating them has no
// effect on the store.
type Block struct {
	// ID is unique for the process lifetime and never reused.
	ID int64

	// Content is the raw text payload.
	Content string

	// Tokens is the token cost of Content, computed once at creation.
	Tokens int

	// Significance records where the content came from.
	Significance SignificanceType

	// Level is the pool the block currently belongs to.
	Level Level

	// Embedding is the unit-norm vector used for similarity scoring.
	Embedding []float32

	// Label is a three-word mnemonic for logging and debugging.
	Label string

	// CreatedAt orders blocks for retrieval tie-breaks and age-based cleanup.
	CreatedAt time.Time

	// LastAccessed is updated on every retrieval hit.
	LastAccessed time.Time

	// AccessCount counts retrieval hits since creation or last promotion.
	AccessCount int

	// Nexus reports whether the block is exempt from eviction.
	Nexus bool
}

// snapshot returns a detached copy safe to hand to callers.
func snapshot(b *Block) Block {
	c := *b
	c.Embedding = append([]float32(nil), b.Embedding...)
	return c
}
