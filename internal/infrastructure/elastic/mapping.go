package elastic

// productIndexMapping returns the product index mapping for vectors of dims
// dimensions
func productIndexMapping(dims int) map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"product_name": map[string]interface{}{"type": "text"},
				"description":  map[string]interface{}{"type": "text"},
				"image_url":    map[string]interface{}{"type": "keyword"},
				"vector_embedding": map[string]interface{}{
					"type":       "dense_vector",
					"dims":       dims,
					"index":      true,
					"similarity": "cosine",
				},
				"sku_details": map[string]interface{}{
					"type": "nested",
					"properties": map[string]interface{}{
						"quantity":         map[string]interface{}{"type": "keyword"},
						"numeric_quantity": map[string]interface{}{"type": "float"},
						"unit":             map[string]interface{}{"type": "keyword"},
						"is_default":       map[string]interface{}{"type": "boolean"},
					},
				},
			},
		},
	}
}
