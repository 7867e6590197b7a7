// Package anthropic implements provider.CompletionProvider on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/stratamem/strata-go-sdk/provider"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
)

// Provider calls the Anthropic Messages API for completions.
type Provider struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens overrides the default completion token limit.
func WithMaxTokens(n int64) Option {
	return func(p *Provider) {
		p.maxTokens = n
	}
}

// New creates a Provider. The API key comes from the ANTHROPIC_API_KEY
// environment variable unless overridden with client options.
func New(opts ...Option) *Provider {
	p := &Provider{
		client:    sdk.NewClient(),
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewWithAPIKey creates a Provider with an explicit API key.
func NewWithAPIKey(key string, opts ...Option) *Provider {
	p := New(opts...)
	p.client = sdk.NewClient(option.WithAPIKey(key))
	return p
}

// Complete sends prompt as a single user message and returns the
// concatenated text blocks of the response.
func (p *Provider) Complete(ctx context.Context, prompt string) (*provider.Completion, error) {
	resp, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &provider.Completion{
		Text:         text.String(),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}
