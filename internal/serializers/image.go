package serializers

import (
	"encoding/base64"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize bounds a decoded post image.
const MaxImageSize = 10 << 20

const invalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// ImageUpload is a decoded image waiting to be written to the object store.
type ImageUpload struct {
	Key         string
	ContentType string
	Data        []byte
}

// DecodeImage accepts a base64 payload, optionally wrapped as a data URL
// ("data:image/png;base64,..."), and checks that the bytes really are an image.
func DecodeImage(field, raw string) (*ImageUpload, error) {
	encoded := strings.TrimSpace(raw)
	if strings.HasPrefix(encoded, "data:") {
		header, body, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, apperr.NewValidationError(field, invalidImage)
		}
		encoded = body
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil || len(data) == 0 {
		return nil, apperr.NewValidationError(field, invalidImage)
	}
	if len(data) > MaxImageSize {
		return nil, apperr.NewValidationError(field, "The submitted image is too large.")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, apperr.NewValidationError(field, invalidImage)
	}
	return &ImageUpload{
		Key:         "posts/" + uuid.NewString() + mt.Extension(),
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
