package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/grocerylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Options configures the product search client
type Options struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	Index     string
	MinScore  float64 // floor on cosine similarity + 1.0
	Size      int
	// Dimensions is the vector length used when creating the index
	Dimensions int
}

// Client runs vector similarity queries against the product index
type Client struct {
	es         *elasticsearch.Client
	index      string
	minScore   float64
	size       int
	dimensions int
	log        *logrus.Entry
}

// NewClient creates a new Elasticsearch product search client
func NewClient(opts Options) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    opts.Addresses,
		Username:     opts.Username,
		Password:     opts.Password,
		APIKey:       opts.APIKey,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Client{
		es:         es,
		index:      opts.Index,
		minScore:   opts.MinScore,
		size:       opts.Size,
		dimensions: opts.Dimensions,
		log:        logrus.WithFields(logrus.Fields{"component": "search", "index": opts.Index}),
	}, nil
}

// SearchSimilar returns up to Size products scoring at least MinScore,
// ordered as the index ranked them
func (c *Client) SearchSimilar(ctx context.Context, vector []float64) ([]domain.ProductHit, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(buildSimilarityQuery(vector, c.minScore, c.size)); err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", domain.ErrSearchFailure, err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchFailure, res.StatusCode, string(payload))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSearchFailure, err)
	}

	hits := make([]domain.ProductHit, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, hit.toDomain())
	}

	c.log.WithField("hits", len(hits)).Debug("similarity search complete")
	return hits, nil
}

// EnsureIndex creates the product index with its mapping unless it already
// exists. It reports whether the index was created.
func (c *Client) EnsureIndex(ctx context.Context) (bool, error) {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrIndexSetupFailure, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("%w: exists check returned status %d", domain.ErrIndexSetupFailure, res.StatusCode)
	}

	mapping, err := json.Marshal(productIndexMapping(c.dimensions))
	if err != nil {
		return false, fmt.Errorf("%w: encode mapping: %v", domain.ErrIndexSetupFailure, err)
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrIndexSetupFailure, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		payload, _ := io.ReadAll(res.Body)
		return false, fmt.Errorf("%w: status %d, body: %s", domain.ErrIndexSetupFailure, res.StatusCode, string(payload))
	}

	c.log.WithField("dims", c.dimensions).Info("created product index")
	return true, nil
}
