package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// VisionModel sends an instruction plus an inline image to a multimodal model
// and returns the model's reply text.
type VisionModel interface {
	DescribeImage(ctx context.Context, prompt string, image EncodedImage) (string, error)
}

// Embedder converts text into a fixed-length vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ProductSearcher finds products whose stored embedding is close to a query vector
type ProductSearcher interface {
	SearchSimilar(ctx context.Context, vector []float64) ([]ProductHit, error)
}
