package domain

// GroceryItem is a single line read off a grocery list photo
type GroceryItem struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// EncodedImage is an image ready to be sent inline to a vision model
type EncodedImage struct {
	MediaType string // e.g. "image/jpeg"
	Base64    string // standard base64 encoding of the raw bytes
}

// RecommendationRequest is the body of a recommendations request
type RecommendationRequest struct {
	ItemName string `json:"item_name"`
}
