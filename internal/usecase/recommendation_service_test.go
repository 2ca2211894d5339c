package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_MapsAndSortsHits(t *testing.T) {
	embedder := &mockEmbedder{vector: []float64{0.1, 0.2, 0.3}}
	searcher := &mockSearcher{hits: []domain.ProductHit{
		{ProductName: strPtr("Nandini Milk"), RawScore: 1.45},
		{
			ProductName: strPtr("Amul Taaza Toned Milk"),
			Description: strPtr("Fresh toned milk"),
			SKUDetails:  []domain.SKU{{Quantity: "1/2 litre", NumericQuantity: 0.5, Unit: "litre", IsDefault: true}},
			ImageURL:    strPtr("/images/amul.jpg"),
			RawScore:    1.90,
		},
	}}
	svc := NewRecommendationService(embedder, searcher)

	recs, err := svc.Recommend(context.Background(), "milk")

	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.Recommendation{
		ProductName:     "Amul Taaza Toned Milk",
		Description:     "Fresh toned milk",
		SKUs:            []domain.SKU{{Quantity: "1/2 litre", NumericQuantity: 0.5, Unit: "litre", IsDefault: true}},
		SimilarityScore: 90.0,
		ImageURL:        strPtr("/images/amul.jpg"),
	}, recs[0])

	assert.Equal(t, "Nandini Milk", recs[1].ProductName)
	assert.Equal(t, 45.0, recs[1].SimilarityScore)
	assert.Equal(t, "", recs[1].Description)
	assert.NotNil(t, recs[1].SKUs)
	assert.Empty(t, recs[1].SKUs)
	assert.Nil(t, recs[1].ImageURL)

	assert.Equal(t, []string{"milk"}, embedder.texts)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, searcher.gotVector)
}

func TestRecommend_MissingProductNameDefaultsToItem(t *testing.T) {
	svc := NewRecommendationService(
		&mockEmbedder{vector: []float64{1}},
		&mockSearcher{hits: []domain.ProductHit{{RawScore: 1.5}}},
	)

	recs, err := svc.Recommend(context.Background(), "paneer")

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "paneer", recs[0].ProductName)
	assert.Equal(t, 50.0, recs[0].SimilarityScore)
}

func TestRecommend_StableForEqualScores(t *testing.T) {
	svc := NewRecommendationService(
		&mockEmbedder{vector: []float64{1}},
		&mockSearcher{hits: []domain.ProductHit{
			{ProductName: strPtr("first"), RawScore: 1.6},
			{ProductName: strPtr("second"), RawScore: 1.6},
			{ProductName: strPtr("best"), RawScore: 1.7},
		}},
	)

	recs, err := svc.Recommend(context.Background(), "bread")

	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "best", recs[0].ProductName)
	assert.Equal(t, "first", recs[1].ProductName)
	assert.Equal(t, "second", recs[2].ProductName)
}

func TestRecommend_NoHits(t *testing.T) {
	svc := NewRecommendationService(&mockEmbedder{vector: []float64{1}}, &mockSearcher{})

	recs, err := svc.Recommend(context.Background(), "caviar")

	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_Failures(t *testing.T) {
	tests := []struct {
		name          string
		embedder      *mockEmbedder
		searcher      *mockSearcher
		item          string
		wantErr       error
		wantSearchRun bool
	}{
		{
			name:     "blank item",
			embedder: &mockEmbedder{},
			searcher: &mockSearcher{},
			item:     "   ",
			wantErr:  domain.ErrInvalidRequest,
		},
		{
			name:     "embedding failure",
			embedder: &mockEmbedder{err: fmt.Errorf("%w: 401", domain.ErrEmbeddingAPIFailure)},
			searcher: &mockSearcher{},
			item:     "milk",
			wantErr:  domain.ErrEmbeddingAPIFailure,
		},
		{
			name:          "search failure",
			embedder:      &mockEmbedder{vector: []float64{1}},
			searcher:      &mockSearcher{err: fmt.Errorf("%w: connection refused", domain.ErrSearchFailure)},
			item:          "milk",
			wantErr:       domain.ErrSearchFailure,
			wantSearchRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecommendationService(tt.embedder, tt.searcher)

			recs, err := svc.Recommend(context.Background(), tt.item)

			assert.NotNil(t, recs)
			assert.Empty(t, recs)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantSearchRun, tt.searcher.calls == 1)
		})
	}
}

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{raw: 1.90, want: 90.0},
		{raw: 1.45, want: 45.0},
		{raw: 2.0, want: 100.0},
		{raw: 1.0, want: 0.0},
		{raw: 0.0, want: -100.0},
		{raw: 1.8234, want: 82.3},
		{raw: 1.8276, want: 82.8},
		{raw: 1.8125, want: 81.2},
		{raw: 1.5625, want: 56.2},
		{raw: 1.6875, want: 68.8},
		{raw: 1.9375, want: 93.8},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, similarityScore(tt.raw))
		})
	}
}
