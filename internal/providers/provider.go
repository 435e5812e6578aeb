package providers

import (
	"context"
	"fmt"
	"time"
)

// DefaultImageMIMEType is assumed when an image is attached without a type.
const DefaultImageMIMEType = "image/jpeg"

// LLMClient is the interface the extraction pipeline depends on. A client
// turns one prompt (optionally with an inline image) into raw model text.
type LLMClient interface {
	// Generate sends a single system+user exchange and returns the raw
	// completion text.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string

	// Model returns the default model identifier.
	Model() string
}

// GenerateRequest describes one completion call.
type GenerateRequest struct {
	// Prompt is the user message text.
	Prompt string `json:"prompt"`

	// System overrides the system instruction. Empty means the client default.
	System string `json:"system,omitempty"`

	// ImageBytes, when set, turns the user message into a multi-part payload
	// with the image inlined as a base64 data URI.
	ImageBytes    []byte `json:"-"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`

	// Model overrides the client's default model.
	Model string `json:"model,omitempty"`

	// Generation parameters. Nil means the client default; a pointer keeps
	// an explicit zero distinguishable from unset.
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	// RequestID is generated when empty.
	RequestID string `json:"-"`
}

// GenerateResult is the response from a completion call.
type GenerateResult struct {
	Content string `json:"content"`

	// Token counts as reported by the service.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID     string        `json:"request_id"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// ConfigurationError indicates the client cannot be constructed or connected,
// typically a missing API credential. It is never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// GenerationError wraps a transport or service failure during a single model
// call. The caller decides whether to retry.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
