package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grocerylens/backend/config"
	httpDelivery "github.com/grocerylens/backend/internal/delivery/http"
	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/infrastructure/cache"
	"github.com/grocerylens/backend/internal/infrastructure/elastic"
	"github.com/grocerylens/backend/internal/infrastructure/embedding"
	"github.com/grocerylens/backend/internal/infrastructure/logging"
	"github.com/grocerylens/backend/internal/infrastructure/vision"
	"github.com/grocerylens/backend/internal/usecase"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := logging.Configure(logrus.StandardLogger(), cfg.Log, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	logrus.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"vision":      cfg.Vision.Provider + "/" + cfg.Vision.Model,
		"embedding":   cfg.Embedding.Model,
		"index":       cfg.Search.Index,
		"cache":       cfg.Cache.Type,
	}).Info("Starting GroceryLens Backend v1.0.0")

	// Initialize infrastructure dependencies
	visionModel, err := vision.New(vision.Options{
		Provider:          cfg.Vision.Provider,
		APIKey:            cfg.Vision.APIKey,
		Model:             cfg.Vision.Model,
		MaxTokens:         cfg.Vision.MaxTokens,
		BaseURL:           cfg.Vision.BaseURL,
		RequestsPerSecond: cfg.RateLimit.Vision,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create vision client")
	}

	embeddingClient := embedding.NewClient(embedding.Options{
		APIKey:            cfg.Embedding.APIKey,
		Model:             cfg.Embedding.Model,
		BaseURL:           cfg.Embedding.BaseURL,
		Dimensions:        cfg.Embedding.Dimensions,
		RequestsPerSecond: cfg.RateLimit.Embedding,
	})

	var embedder domain.Embedder = embeddingClient
	embeddingCache, closeCache, err := newEmbeddingCache(cfg.Cache)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create embedding cache")
	}
	if embeddingCache != nil {
		defer closeCache()
		embedder = usecase.NewCachedEmbedder(embedder, embeddingCache, embeddingClient.Model(), cfg.Cache.TTL)
		logrus.WithFields(logrus.Fields{"type": cfg.Cache.Type, "ttl": cfg.Cache.TTL}).Info("Embedding cache enabled")
	}

	searchClient, err := elastic.NewClient(elastic.Options{
		Addresses:  cfg.Search.Addresses,
		Username:   cfg.Search.Username,
		Password:   cfg.Search.Password,
		APIKey:     cfg.Search.APIKey,
		Index:      cfg.Search.Index,
		MinScore:   cfg.Search.MinScore,
		Size:       cfg.Search.Size,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create search client")
	}

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(visionModel, cfg.Vision.Prompt)
	recommendationService := usecase.NewRecommendationService(embedder, searchClient)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService, recommendationService, httpDelivery.HandlerConfig{
		ImageDir:              cfg.Server.ImageDir,
		SurfaceUpstreamErrors: cfg.Server.SurfaceUpstreamErrors,
	})

	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logrus.WithField("addr", addr).Info("Server listening")

	if err := router.Run(addr); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

// newEmbeddingCache returns nil when caching is disabled
func newEmbeddingCache(cfg config.CacheConfig) (domain.CacheRepository, func() error, error) {
	switch cfg.Type {
	case "memory":
		memoryCache := cache.NewMemoryCache()
		return memoryCache, memoryCache.Close, nil
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			// Cache failures are tolerated per request, so start anyway
			logrus.WithError(err).Warn("Redis not reachable at startup")
		}
		return redisCache, redisCache.Close, nil
	default:
		return nil, nil, nil
	}
}
