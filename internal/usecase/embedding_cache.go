package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// CachedEmbedder memoizes an Embedder. The cache is best effort: read and
// write failures fall through to the wrapped embedder.
type CachedEmbedder struct {
	embedder domain.Embedder
	cache    domain.CacheRepository
	model    string
	ttl      time.Duration
	log      *logrus.Entry
}

// NewCachedEmbedder wraps embedder with cache. model namespaces the keys so
// vectors from different models never mix.
func NewCachedEmbedder(embedder domain.Embedder, cache domain.CacheRepository, model string, ttl time.Duration) *CachedEmbedder {
	if ttl == 0 {
		ttl = 720 * time.Hour // Default 30 days
	}
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache,
		model:    model,
		ttl:      ttl,
		log:      logrus.WithField("component", "embedding_cache"),
	}
}

// Embed returns the cached vector for text, computing and storing it on a miss
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := embeddingCacheKey(e.model, text)

	if vector, ok := e.lookup(ctx, key); ok {
		return vector, nil
	}

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.store(ctx, key, vector)
	return vector, nil
}

func (e *CachedEmbedder) lookup(ctx context.Context, key string) ([]float64, bool) {
	data, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			e.log.WithError(err).Warn("embedding cache read failed")
		}
		return nil, false
	}

	var vector []float64
	if err := json.Unmarshal(data, &vector); err != nil {
		e.log.WithError(err).WithField("key", key).Warn("discarding corrupt cached embedding")
		if err := e.cache.Delete(ctx, key); err != nil {
			e.log.WithError(err).Warn("embedding cache delete failed")
		}
		return nil, false
	}
	return vector, true
}

func (e *CachedEmbedder) store(ctx context.Context, key string, vector []float64) {
	data, err := json.Marshal(vector)
	if err != nil {
		e.log.WithError(err).Warn("failed to encode embedding for cache")
		return
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.log.WithError(err).Warn("embedding cache write failed")
	}
}

func embeddingCacheKey(model, text string) string {
	return "embedding:" + model + ":" + text
}
