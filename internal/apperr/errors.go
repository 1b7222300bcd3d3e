package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means the operation needs an acting identity and none was supplied.
	ErrUnauthorized = errors.New("Authentication credentials were not provided.")
	// ErrForbidden means the acting identity may not modify the resource.
	ErrForbidden = errors.New("You do not have permission to perform this action.")
	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("Not found.")
	// ErrConstraintViolation is returned by repositories when the storage engine rejects a write
	// because of a unique, check or foreign key constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// NonFieldErrors is the key used for errors that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

// ValidationError is a per-field report of client input problems.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a report holding a single message for field.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add appends message to the messages reported for field.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Empty reports whether no messages were added.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// OrNil returns v when it carries messages and nil otherwise.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
