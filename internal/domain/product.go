package domain

// SKU is one purchasable size variant of a product
type SKU struct {
	Quantity        string  `json:"quantity"` // display form, e.g. "1/2 litre"
	NumericQuantity float64 `json:"numeric_quantity"`
	Unit            string  `json:"unit"`
	IsDefault       bool    `json:"is_default"`
}

// ProductRecord is the document shape stored in the external product index.
// The catalogue loader writes it; this service only reads it back through
// search hits and never indexes records itself.
type ProductRecord struct {
	ProductName     string    `json:"product_name"`
	Description     string    `json:"description"`
	ImageURL        *string   `json:"image_url,omitempty"`
	SKUDetails      []SKU     `json:"sku_details"`
	VectorEmbedding []float64 `json:"vector_embedding"`
}

// ProductHit is one scored search hit. Nil fields were absent (or null) in the
// stored document.
type ProductHit struct {
	ProductName *string
	Description *string
	SKUDetails  []SKU
	ImageURL    *string
	RawScore    float64 // cosine similarity + 1.0, in [0,2]
}

// Recommendation is a product suggested for a grocery item
type Recommendation struct {
	ProductName     string  `json:"product_name"`
	Description     string  `json:"description"`
	SKUs            []SKU   `json:"skus"`
	SimilarityScore float64 `json:"similarity_score"` // percentage-like, in [-100,100]
	ImageURL        *string `json:"image_url"`
}
