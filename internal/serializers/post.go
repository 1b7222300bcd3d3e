package serializers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
)

// PostInput is a validated post write. Has* flags tell which optional fields
// were sent, so a partial update leaves the others alone.
type PostInput struct {
	Text     *string
	HasGroup bool
	GroupID  *uint
	HasImage bool
	Image    *ImageUpload // nil with HasImage clears the image
}

type postFields struct {
	Text string `json:"text" validate:"required"`
}

// PostSerializer maps posts to the wire and validates post writes. Author and
// publication date are never taken from input.
type PostSerializer struct {
	validator Validator
	groups    repositories.GroupRepository
	mediaURL  string
}

func NewPostSerializer(v Validator, groups repositories.GroupRepository, mediaURL string) *PostSerializer {
	return &PostSerializer{validator: v, groups: groups, mediaURL: mediaURL}
}

// Validate checks a create (partial=false) or a PATCH (partial=true) body.
func (s *PostSerializer) Validate(ctx context.Context, payload *models.PostPayload, partial bool) (*PostInput, error) {
	report := &apperr.ValidationError{}
	in := &PostInput{}

	switch {
	case len(payload.Text) > 0:
		text, err := decodeText("text", payload.Text)
		if cerr := collect(report, err); cerr != nil {
			return nil, cerr
		}
		if err == nil {
			in.Text = &text
		}
	case !partial:
		if err := collect(report, s.validator.ValidatePartial(&postFields{}, "Text")); err != nil {
			return nil, err
		}
	}

	if len(payload.Group) > 0 {
		in.HasGroup = true
		id, err := s.resolveGroup(ctx, payload.Group)
		if err := collect(report, err); err != nil {
			return nil, err
		}
		in.GroupID = id
	}

	if len(payload.Image) > 0 {
		in.HasImage = true
		img, err := decodeImageField(payload.Image)
		if err := collect(report, err); err != nil {
			return nil, err
		}
		in.Image = img
	}

	if err := report.OrNil(); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *PostSerializer) resolveGroup(ctx context.Context, raw json.RawMessage) (*uint, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}
	var id uint
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, apperr.NewValidationError("group", "Incorrect type. Expected pk value, received "+jsonKind(raw)+".")
	}
	if _, err := s.groups.GetGroupByID(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NewValidationError("group", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
		return nil, err
	}
	return &id, nil
}

func decodeImageField(raw json.RawMessage) (*ImageUpload, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, apperr.NewValidationError("image", "The submitted data was not a file. Check the encoding type on the form.")
	}
	if encoded == "" {
		return nil, nil
	}
	return DecodeImage("image", encoded)
}

// ToRepresentation renders a post with its author preloaded.
func (s *PostSerializer) ToRepresentation(p *models.Post) models.PostResponse {
	out := models.PostResponse{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  p.Author.Username,
		Group:   p.GroupID,
	}
	if p.Image != nil && *p.Image != "" {
		url := MediaURL(s.mediaURL, *p.Image)
		out.Image = &url
	}
	return out
}

// ToRepresentationList renders posts in order.
func (s *PostSerializer) ToRepresentationList(posts []models.Post) []models.PostResponse {
	out := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, s.ToRepresentation(&posts[i]))
	}
	return out
}

func jsonKind(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid"
	}
	switch v.(type) {
	case string:
		return "str"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	default:
		return "null"
	}
}
