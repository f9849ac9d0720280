package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAuthentication   = errors.New("unable to login")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUnsupportedImage = errors.New("please upload an image")
	ErrValidation       = errors.New("validation failed")
)

// ValidationError lists rejected input fields. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
