package summary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stratamem/strata-go-sdk/memory"
	"github.com/stratamem/strata-go-sdk/memory/archive/summary"
	"github.com/stratamem/strata-go-sdk/provider"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (*provider.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Completion{Text: f.reply, InputTokens: 10, OutputTokens: 3}, nil
}

type captureArchiver struct {
	got []memory.Block
}

func (c *captureArchiver) Archive(_ context.Context, blocks []memory.Block) error {
	c.got = blocks
	return nil
}

func TestLargeBlocksAreSummarized(t *testing.T) {
	p := &fakeProvider{reply: "condensed version"}
	next := &captureArchiver{}
	a := summary.New(next, p, summary.WithMinTokens(5))

	blocks := []memory.Block{
		{ID: 1, Content: "short note", Tokens: 2},
		{ID: 2, Content: "a much longer block of content worth compressing", Tokens: 8},
	}
	if err := a.Archive(context.Background(), blocks); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (only the large block)", p.calls)
	}
	if len(next.got) != 2 {
		t.Fatalf("forwarded %d blocks, want 2", len(next.got))
	}
	if next.got[0].Content != "short note" {
		t.Errorf("small block content = %q, want untouched", next.got[0].Content)
	}
	if next.got[1].Content != "condensed version" {
		t.Errorf("large block content = %q, want the summary", next.got[1].Content)
	}
}

func TestProviderFailureKeepsOriginalContent(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	next := &captureArchiver{}
	a := summary.New(next, p, summary.WithMinTokens(1))

	blocks := []memory.Block{{ID: 1, Content: "irreplaceable content", Tokens: 5}}
	if err := a.Archive(context.Background(), blocks); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(next.got) != 1 || next.got[0].Content != "irreplaceable content" {
		t.Errorf("forwarded blocks = %+v, want original content preserved", next.got)
	}
}

func TestInputSliceIsNotMutated(t *testing.T) {
	p := &fakeProvider{reply: "summary"}
	a := summary.New(&captureArchiver{}, p, summary.WithMinTokens(1))

	blocks := []memory.Block{{ID: 1, Content: "original text", Tokens: 5}}
	if err := a.Archive(context.Background(), blocks); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if blocks[0].Content != "original text" {
		t.Errorf("caller's slice mutated: %q", blocks[0].Content)
	}
}
