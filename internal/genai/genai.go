// Package genai abstracts external text-generation providers behind a single
// interface with a configured preference order.
package genai

import (
	"context"
	"errors"
)

var (
	// ErrOverloaded signals a rate-limit or capacity response from a
	// provider. It is the only error that triggers a fallback to the next
	// provider in the chain.
	ErrOverloaded = errors.New("provider overloaded")

	ErrEmptyCompletion = errors.New("provider returned no content")
)

// Request is the provider-agnostic completion request.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type Completion struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Usage    Usage  `json:"usage"`
}

// Provider is implemented by one adapter per external provider.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}
