package serializers

import (
	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
)

type commentFields struct {
	Text string `json:"text" validate:"required"`
}

// CommentSerializer maps comments to the wire. Only text is writable; the post
// comes from the URL and the author from the acting identity.
type CommentSerializer struct {
	validator Validator
}

func NewCommentSerializer(v Validator) *CommentSerializer {
	return &CommentSerializer{validator: v}
}

// Validate returns the new text, or nil when a partial update leaves it unchanged.
func (s *CommentSerializer) Validate(payload *models.CommentPayload, partial bool) (*string, error) {
	report := &apperr.ValidationError{}
	if len(payload.Text) == 0 {
		if partial {
			return nil, nil
		}
		if err := collect(report, s.validator.ValidatePartial(&commentFields{}, "Text")); err != nil {
			return nil, err
		}
		return nil, report.OrNil()
	}
	text, err := decodeText("text", payload.Text)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func (s *CommentSerializer) ToRepresentation(c *models.Comment) models.CommentResponse {
	return models.CommentResponse{
		ID:      c.ID,
		Author:  c.Author.Username,
		Post:    c.PostID,
		Text:    c.Text,
		Created: c.Created,
	}
}

func (s *CommentSerializer) ToRepresentationList(comments []models.Comment) []models.CommentResponse {
	out := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, s.ToRepresentation(&comments[i]))
	}
	return out
}
