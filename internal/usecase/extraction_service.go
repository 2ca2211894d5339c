package usecase

import (
	"context"
	"encoding/base64"

	"github.com/gabriel-vasile/mimetype"
	"github.com/grocerylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// DefaultExtractionPrompt is sent with every image unless overridden
const DefaultExtractionPrompt = "Extract grocery items from this image. If there is an adjective or descriptor with the item, " +
	"include it in the Item name, for example 'organic' in organic strawberry, 'low fat' in low fat etc. " +
	"Return only a JSON object with format: {'grocery_list': [{'item_name': string, 'quantity': number, 'unit': string}, ...]}"

// fallbackMediaType is used when the upload is not a format vision models accept
const fallbackMediaType = "image/jpeg"

var supportedMediaTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ExtractionService reads grocery items off a photo using a vision model
type ExtractionService struct {
	model  domain.VisionModel
	prompt string
	log    *logrus.Entry
}

// NewExtractionService creates a new extraction service. An empty prompt
// selects DefaultExtractionPrompt.
func NewExtractionService(model domain.VisionModel, prompt string) *ExtractionService {
	if prompt == "" {
		prompt = DefaultExtractionPrompt
	}
	return &ExtractionService{
		model:  model,
		prompt: prompt,
		log:    logrus.WithField("component", "extraction"),
	}
}

// ExtractGroceryList returns the items visible in image. The slice is never
// nil. A non-nil error means the model call failed and the list is empty;
// unparseable replies are not errors.
func (s *ExtractionService) ExtractGroceryList(ctx context.Context, image []byte) ([]domain.GroceryItem, error) {
	if len(image) == 0 {
		return []domain.GroceryItem{}, nil
	}

	encoded := encodeImage(image)
	reply, err := s.model.DescribeImage(ctx, s.prompt, encoded)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"image_bytes": len(image),
			"media_type":  encoded.MediaType,
		}).Error("grocery list extraction failed")
		return []domain.GroceryItem{}, err
	}

	items := parseGroceryReply(reply)
	s.log.WithFields(logrus.Fields{
		"image_bytes": len(image),
		"items":       len(items),
	}).Info("extracted grocery list")

	return items, nil
}

func encodeImage(image []byte) domain.EncodedImage {
	return domain.EncodedImage{
		MediaType: detectMediaType(image),
		Base64:    base64.StdEncoding.EncodeToString(image),
	}
}

func detectMediaType(image []byte) string {
	detected := mimetype.Detect(image)
	for _, mediaType := range supportedMediaTypes {
		if detected.Is(mediaType) {
			return mediaType
		}
	}
	return fallbackMediaType
}
