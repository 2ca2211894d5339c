package elastic

import "github.com/grocerylens/backend/internal/domain"

// cosineScoreScript shifts cosine similarity from [-1,1] into [0,2] because
// Elasticsearch rejects negative scores.
const cosineScoreScript = "cosineSimilarity(params.query_vector, 'vector_embedding') + 1.0"

// productSourceFields is the projection returned for every hit
var productSourceFields = []string{"product_name", "description", "sku_details", "image_url"}

type searchRequest struct {
	Query  searchQuery `json:"query"`
	Source []string    `json:"_source"`
	Size   int         `json:"size"`
}

type searchQuery struct {
	ScriptScore scriptScoreQuery `json:"script_score"`
}

type scriptScoreQuery struct {
	Query    map[string]interface{} `json:"query"`
	Script   scoreScript            `json:"script"`
	MinScore float64                `json:"min_score"`
}

type scoreScript struct {
	Source string                 `json:"source"`
	Params map[string]interface{} `json:"params"`
}

// buildSimilarityQuery scores every document by cosine similarity to vector
// and keeps the best size hits scoring at least minScore
func buildSimilarityQuery(vector []float64, minScore float64, size int) searchRequest {
	return searchRequest{
		Query: searchQuery{
			ScriptScore: scriptScoreQuery{
				Query: map[string]interface{}{"match_all": map[string]interface{}{}},
				Script: scoreScript{
					Source: cosineScoreScript,
					Params: map[string]interface{}{"query_vector": vector},
				},
				MinScore: minScore,
			},
		},
		Source: productSourceFields,
		Size:   size,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	Score  float64       `json:"_score"`
	Source productSource `json:"_source"`
}

// productSource keeps absent fields distinguishable from empty ones
type productSource struct {
	ProductName *string      `json:"product_name"`
	Description *string      `json:"description"`
	SKUDetails  []domain.SKU `json:"sku_details"`
	ImageURL    *string      `json:"image_url"`
}

func (h searchHit) toDomain() domain.ProductHit {
	return domain.ProductHit{
		ProductName: h.Source.ProductName,
		Description: h.Source.Description,
		SKUDetails:  h.Source.SKUDetails,
		ImageURL:    h.Source.ImageURL,
		RawScore:    h.Score,
	}
}
