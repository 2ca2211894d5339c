package usecase

import (
	"context"
	"time"

	"github.com/grocerylens/backend/internal/domain"
)

// mockVisionModel is a mock implementation of domain.VisionModel
type mockVisionModel struct {
	reply     string
	err       error
	calls     int
	gotPrompt string
	gotImage  domain.EncodedImage
}

func (m *mockVisionModel) DescribeImage(ctx context.Context, prompt string, image domain.EncodedImage) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	m.gotImage = image
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// mockEmbedder is a mock implementation of domain.Embedder
type mockEmbedder struct {
	vector []float64
	err    error
	calls  int
	texts  []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

// mockSearcher is a mock implementation of domain.ProductSearcher
type mockSearcher struct {
	hits      []domain.ProductHit
	err       error
	calls     int
	gotVector []float64
}

func (m *mockSearcher) SearchSimilar(ctx context.Context, vector []float64) ([]domain.ProductHit, error) {
	m.calls++
	m.gotVector = vector
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// mockCache is a mock implementation of domain.CacheRepository
type mockCache struct {
	data        map[string][]byte
	getError    error
	setError    error
	deleteError error
	gets        int
	sets        int
	deletes     int
	lastTTL     time.Duration
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deletes++
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data, key)
	return nil
}

func strPtr(s string) *string {
	return &s
}
