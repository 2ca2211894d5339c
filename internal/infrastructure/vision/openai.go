package vision

import (
	"context"
	"fmt"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/infrastructure/ratelimit"
	openai "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// OpenAIClient sends images to an OpenAI chat model as inline data URLs
type OpenAIClient struct {
	client      openai.Client
	model       string
	maxTokens   int64
	rateLimiter *rate.Limiter
	log         *logrus.Entry
}

// NewOpenAIClient creates a new OpenAI vision client
func NewOpenAIClient(opts Options) *OpenAIClient {
	requestOpts := []openaioption.RequestOption{
		openaioption.WithAPIKey(opts.APIKey),
		openaioption.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, openaioption.WithBaseURL(opts.BaseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(requestOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		rateLimiter: ratelimit.NewLimiter(opts.RequestsPerSecond),
		log:         logrus.WithFields(logrus.Fields{"component": "vision", "provider": ProviderOpenAI}),
	}
}

// DescribeImage sends prompt and image in a single user message and returns
// the content of the first choice
func (c *OpenAIClient) DescribeImage(ctx context.Context, prompt string, image domain.EncodedImage) (string, error) {
	if err := ratelimit.Wait(ctx, c.rateLimiter); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrVisionAPIFailure, err)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", image.MediaType, image.Base64)
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(c.maxTokens)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVisionAPIFailure, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: reply has no choices", domain.ErrVisionAPIFailure)
	}

	c.log.WithFields(logrus.Fields{
		"model":         c.model,
		"input_tokens":  completion.Usage.PromptTokens,
		"output_tokens": completion.Usage.CompletionTokens,
	}).Debug("vision reply received")

	return completion.Choices[0].Message.Content, nil
}
