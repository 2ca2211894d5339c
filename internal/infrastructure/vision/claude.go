package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/infrastructure/ratelimit"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClaudeClient sends images to Claude through the Anthropic Messages API
type ClaudeClient struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	rateLimiter *rate.Limiter
	log         *logrus.Entry
}

// NewClaudeClient creates a new Claude vision client
func NewClaudeClient(opts Options) *ClaudeClient {
	requestOpts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(opts.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, anthropicoption.WithBaseURL(opts.BaseURL))
	}

	return &ClaudeClient{
		client:      anthropic.NewClient(requestOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		rateLimiter: ratelimit.NewLimiter(opts.RequestsPerSecond),
		log:         logrus.WithFields(logrus.Fields{"component": "vision", "provider": ProviderAnthropic}),
	}
}

// DescribeImage sends prompt and image in a single user turn and returns the
// text of the reply
func (c *ClaudeClient) DescribeImage(ctx context.Context, prompt string, image domain.EncodedImage) (string, error) {
	if err := ratelimit.Wait(ctx, c.rateLimiter); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrVisionAPIFailure, err)
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				anthropic.NewImageBlockBase64(image.MediaType, image.Base64),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVisionAPIFailure, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: reply has no text content", domain.ErrVisionAPIFailure)
	}

	c.log.WithFields(logrus.Fields{
		"model":         c.model,
		"input_tokens":  message.Usage.InputTokens,
		"output_tokens": message.Usage.OutputTokens,
	}).Debug("vision reply received")

	return text.String(), nil
}
