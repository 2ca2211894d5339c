// Package vision adapts multimodal chat models to domain.VisionModel.
package vision

import (
	"fmt"

	"github.com/grocerylens/backend/internal/domain"
)

// Provider names accepted by New
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Options configures a vision model client
type Options struct {
	Provider          string
	APIKey            string
	Model             string
	MaxTokens         int64
	BaseURL           string // empty for the provider default
	RequestsPerSecond float64
}

// New builds the vision model client for opts.Provider
func New(opts Options) (domain.VisionModel, error) {
	switch opts.Provider {
	case ProviderAnthropic:
		return NewClaudeClient(opts), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown vision provider: %q", opts.Provider)
	}
}
