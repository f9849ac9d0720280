package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// DecodeStrict decodes a JSON object into v, rejecting keys v does not declare.
// Every failure is a *ValidationError, so nothing is applied from a partially bad body.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return NewValidationError("body", "unexpected data after JSON object")
	}
	return nil
}

// DecodeStrictBytes is DecodeStrict over an in-memory body.
func DecodeStrictBytes(b []byte, v any) error {
	return DecodeStrict(bytes.NewReader(b), v)
}

func decodeError(err error) error {
	const unknown = "json: unknown field "
	msg := err.Error()
	if strings.HasPrefix(msg, unknown) {
		field := strings.Trim(strings.TrimPrefix(msg, unknown), `"`)
		return NewValidationError(field, "update not allowed")
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return NewValidationError(te.Field, "must be a "+te.Type.String())
	}
	if errors.Is(err, io.EOF) {
		return NewValidationError("body", "empty body")
	}
	return NewValidationError("body", "invalid json")
}
