package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grocerylens/backend/internal/domain"
)

// GroceryExtractor reads grocery items from an uploaded photo
type GroceryExtractor interface {
	ExtractGroceryList(ctx context.Context, image []byte) ([]domain.GroceryItem, error)
}

// ProductRecommender ranks products for a grocery item
type ProductRecommender interface {
	Recommend(ctx context.Context, itemName string) ([]domain.Recommendation, error)
}

// HandlerConfig holds handler settings taken from the server config
type HandlerConfig struct {
	ImageDir string
	// SurfaceUpstreamErrors turns model and search failures into 502s
	// instead of empty 200 responses
	SurfaceUpstreamErrors bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extractor             GroceryExtractor
	recommender           ProductRecommender
	imageDir              string
	surfaceUpstreamErrors bool
}

// NewHandler creates a new HTTP handler
func NewHandler(extractor GroceryExtractor, recommender ProductRecommender, cfg HandlerConfig) *Handler {
	return &Handler{
		extractor:             extractor,
		recommender:           recommender,
		imageDir:              cfg.ImageDir,
		surfaceUpstreamErrors: cfg.SurfaceUpstreamErrors,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocerylens-backend",
		"version": "1.0.0",
	})
}

// ProcessImage extracts a grocery list from the multipart field "image"
func (h *Handler) ProcessImage(c *gin.Context) {
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Grocery extraction not configured"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		// A part sent without a filename is parsed as a plain form value
		if _, present := c.GetPostForm("image"); present {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No selected image"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image part"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected image"})
		return
	}

	image, err := readUpload(file)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error processing image: %v", err)})
		return
	}

	items, err := h.extractor.ExtractGroceryList(c.Request.Context(), image)
	if err != nil && h.upstreamFailed(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"grocery_list": items})
}

// Recommendations returns ranked products for {"item_name": ...}
func (h *Handler) Recommendations(c *gin.Context) {
	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendations not configured"})
		return
	}

	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.ItemName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No item_name provided"})
		return
	}

	recommendations, err := h.recommender.Recommend(c.Request.Context(), req.ItemName)
	if err != nil && h.upstreamFailed(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// ServeImage serves a product image from the image directory
func (h *Handler) ServeImage(c *gin.Context) {
	// Cleaning against the root keeps ".." from climbing out of imageDir
	name := path.Clean("/" + c.Param("filename"))
	if name == "/" {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	full := filepath.Join(h.imageDir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "File not found: %s", strings.TrimPrefix(name, "/"))
		return
	}

	c.File(full)
}

// upstreamFailed records err on the request and reports whether the
// response was already written
func (h *Handler) upstreamFailed(c *gin.Context, err error) bool {
	_ = c.Error(err)
	if !h.surfaceUpstreamErrors {
		return false
	}

	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrInvalidRequest) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
	return true
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
