package embedding

import (
	"context"
	"fmt"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/infrastructure/ratelimit"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures the embedding client
type Options struct {
	APIKey            string
	Model             string
	BaseURL           string // empty for the OpenAI default
	Dimensions        int    // expected vector length; 0 skips the check
	RequestsPerSecond float64
}

// Client turns text into vectors using the OpenAI embeddings API
type Client struct {
	client      openai.Client
	model       string
	dimensions  int
	rateLimiter *rate.Limiter
	log         *logrus.Entry
}

// NewClient creates a new embedding client
func NewClient(opts Options) *Client {
	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Client{
		client:      openai.NewClient(requestOpts...),
		model:       opts.Model,
		dimensions:  opts.Dimensions,
		rateLimiter: ratelimit.NewLimiter(opts.RequestsPerSecond),
		log:         logrus.WithField("component", "embedding"),
	}
}

// Model returns the embedding model name
func (c *Client) Model() string {
	return c.model
}

// Embed returns the embedding of text. One request per call, no batching.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ratelimit.Wait(ctx, c.rateLimiter); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrEmbeddingAPIFailure, err)
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingAPIFailure, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrEmbeddingAPIFailure)
	}

	vector := resp.Data[0].Embedding
	if c.dimensions > 0 && len(vector) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimension, len(vector), c.dimensions)
	}

	c.log.WithFields(logrus.Fields{
		"model":  c.model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("embedded text")

	return vector, nil
}
