// Package provider defines the completion interface used where the memory
// system needs generated text, such as summarizing blocks before archival.
package provider

import "context"

// Completion is the result of a single completion request.
type Completion struct {
	// Text is the generated output.
	Text string

	// InputTokens and OutputTokens are the provider's reported usage.
	InputTokens  int
	OutputTokens int
}

// CompletionProvider generates text for a prompt. Implementations must be
// safe for concurrent use.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}
