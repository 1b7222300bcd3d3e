// Package serializers converts entities to and from their JSON representation.
// Input is validated field by field; problems are reported as an
// apperr.ValidationError and nothing is silently dropped or coerced.
package serializers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
)

// Validator is the struct validator shared with echo.
type Validator interface {
	Validate(i interface{}) error
	ValidatePartial(i interface{}, fields ...string) error
}

const (
	requiredMessage = "This field is required."
	nullMessage     = "This field may not be null."
	blankMessage    = "This field may not be blank."
)

var jsonNull = []byte("null")

// decodeText reads a sent JSON string field with surrounding whitespace
// trimmed. Null, non-string and blank values are field errors.
func decodeText(field string, raw json.RawMessage) (string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", apperr.NewValidationError(field, nullMessage)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", apperr.NewValidationError(field, "Not a valid string.")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.NewValidationError(field, blankMessage)
	}
	return text, nil
}

// collect folds field errors from err into report and passes any other error through.
func collect(report *apperr.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for field, msgs := range verr.Fields {
		for _, m := range msgs {
			report.Add(field, m)
		}
	}
	return nil
}

// MediaURL joins the public media prefix and an object key.
func MediaURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
