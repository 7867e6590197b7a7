// Package summary is an archiver decorator that compresses large blocks
// through a completion provider before handing them to the underlying
// archiver. Small blocks pass through untouched.
package summary

import (
	"context"
	"fmt"
	"log"

	"github.com/stratamem/strata-go-sdk/memory"
	"github.com/stratamem/strata-go-sdk/provider"
)

const defaultMinTokens = 256

const summaryPrompt = `Condense the following memory content into at most three sentences, keeping concrete facts, names and numbers. Reply with only the condensed text.

%s`

// Archiver summarizes oversized blocks before delegating to next.
type Archiver struct {
	next      memory.Archiver
	provider  provider.CompletionProvider
	minTokens int
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithMinTokens sets the block size above which content is summarized.
func WithMinTokens(n int) Option {
	return func(a *Archiver) {
		a.minTokens = n
	}
}

// New creates a summarizing archiver in front of next.
func New(next memory.Archiver, p provider.CompletionProvider, opts ...Option) *Archiver {
	a := &Archiver{
		next:      next,
		provider:  p,
		minTokens: defaultMinTokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Archive compresses blocks above the token floor and forwards the batch.
// If summarization fails the original content is archived instead; the
// batch never gets dropped on a provider error.
func (a *Archiver) Archive(ctx context.Context, blocks []memory.Block) error {
	out := make([]memory.Block, len(blocks))
	copy(out, blocks)

	for i := range out {
		if out[i].Tokens <= a.minTokens {
			continue
		}
		comp, err := a.provider.Complete(ctx, fmt.Sprintf(summaryPrompt, out[i].Content))
		if err != nil {
			log.Printf("[ARCHIVE] summarize block %d failed, archiving original: %v", out[i].ID, err)
			continue
		}
		out[i].Content = comp.Text
	}

	return a.next.Archive(ctx, out)
}
