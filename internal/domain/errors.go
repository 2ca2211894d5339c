package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrVisionAPIFailure is returned when the vision model request fails
	ErrVisionAPIFailure = errors.New("vision model request failed")

	// ErrEmbeddingAPIFailure is returned when the embedding model request fails
	ErrEmbeddingAPIFailure = errors.New("embedding model request failed")

	// ErrEmbeddingDimension is returned when an embedding has an unexpected length
	ErrEmbeddingDimension = errors.New("embedding dimension mismatch")

	// ErrSearchFailure is returned when the product search request fails
	ErrSearchFailure = errors.New("product search failed")

	// ErrIndexSetupFailure is returned when the product index cannot be provisioned
	ErrIndexSetupFailure = errors.New("product index setup failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
