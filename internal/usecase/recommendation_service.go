package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// RecommendationService ranks catalogue products against a grocery item
type RecommendationService struct {
	embedder domain.Embedder
	searcher domain.ProductSearcher
	log      *logrus.Entry
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(embedder domain.Embedder, searcher domain.ProductSearcher) *RecommendationService {
	return &RecommendationService{
		embedder: embedder,
		searcher: searcher,
		log:      logrus.WithField("component", "recommendation"),
	}
}

// Recommend returns products similar to itemName, best first.
// Flow: embed -> similarity search -> map hits -> sort.
// The slice is never nil; on failure it is empty and the error says why.
func (s *RecommendationService) Recommend(ctx context.Context, itemName string) ([]domain.Recommendation, error) {
	if strings.TrimSpace(itemName) == "" {
		return []domain.Recommendation{}, domain.ErrInvalidRequest
	}

	logger := s.log.WithField("item", itemName)

	vector, err := s.embedder.Embed(ctx, itemName)
	if err != nil {
		logger.WithError(err).Error("failed to embed item")
		return []domain.Recommendation{}, fmt.Errorf("embed %q: %w", itemName, err)
	}

	hits, err := s.searcher.SearchSimilar(ctx, vector)
	if err != nil {
		logger.WithError(err).Error("similarity search failed")
		return []domain.Recommendation{}, fmt.Errorf("search %q: %w", itemName, err)
	}

	recommendations := make([]domain.Recommendation, 0, len(hits))
	for _, hit := range hits {
		rec := toRecommendation(itemName, hit)
		logger.WithFields(logrus.Fields{
			"product": rec.ProductName,
			"score":   rec.SimilarityScore,
		}).Debug("candidate product")
		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].SimilarityScore > recommendations[j].SimilarityScore
	})

	logger.WithField("count", len(recommendations)).Info("recommendations ready")
	return recommendations, nil
}

func toRecommendation(itemName string, hit domain.ProductHit) domain.Recommendation {
	rec := domain.Recommendation{
		ProductName:     itemName,
		SKUs:            hit.SKUDetails,
		SimilarityScore: similarityScore(hit.RawScore),
		ImageURL:        hit.ImageURL,
	}
	if hit.ProductName != nil {
		rec.ProductName = *hit.ProductName
	}
	if hit.Description != nil {
		rec.Description = *hit.Description
	}
	if rec.SKUs == nil {
		rec.SKUs = []domain.SKU{}
	}
	return rec
}

// similarityScore converts a shifted cosine score in [0,2] to a percentage
// rounded to one decimal. Exact ties round half to even.
func similarityScore(raw float64) float64 {
	percent := (raw - 1.0) * 100
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(percent, 'f', 1, 64), 64)
	if err != nil {
		return percent
	}
	return rounded
}
