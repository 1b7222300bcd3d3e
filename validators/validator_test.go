package validators

import (
	"testing"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required,max=5"`
	Slug  string `json:"slug" validate:"required,slug"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Title: "too long", Slug: "bad slug", Email: "nope"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, verr.Fields["title"])
	assert.Contains(t, verr.Fields, "slug")
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])

	assert.NoError(t, v.Validate(&sample{Title: "ok", Slug: "a-b_1"}))
}

func TestValidatePartial(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePartial(&sample{}))
	assert.NoError(t, v.ValidatePartial(&sample{Slug: "ok"}, "Slug"))

	err := v.ValidatePartial(&sample{}, "Title")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{"title": {"This field is required."}}, verr.Fields)
}
