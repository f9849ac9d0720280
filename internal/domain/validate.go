package domain

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MinPasswordLength = 7
	// MaxPasswordBytes is bcrypt's input limit, counted in bytes rather than runes.
	MaxPasswordBytes = 72
)

// NormalizeEmail is the canonical form used for storage and uniqueness.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func passwordPolicy(value interface{}) error {
	var pw string
	switch v := value.(type) {
	case string:
		pw = v
	case *string:
		if v == nil {
			return nil
		}
		pw = *v
	}
	if len(pw) > MaxPasswordBytes {
		return fmt.Errorf("must be at most %d bytes", MaxPasswordBytes)
	}
	if strings.Contains(strings.ToLower(pw), "password") {
		return errors.New(`password cannot contain "password"`)
	}
	return nil
}

func (r *Registration) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

func (r Registration) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 0),
			validation.By(passwordPolicy),
		),
		validation.Field(&r.Age, validation.Min(0)),
	))
}

func (p *UserPatch) Normalize() {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
	if p.Email != nil {
		e := NormalizeEmail(*p.Email)
		p.Email = &e
	}
}

func (p UserPatch) Validate() error {
	return toValidationError(validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.By(requiredIfSet), is.Email),
		validation.Field(&p.Password,
			validation.By(requiredIfSet),
			validation.Length(MinPasswordLength, 0),
			validation.By(passwordPolicy),
		),
		validation.Field(&p.Age, validation.Min(0)),
	))
}

func (t *NewTask) Normalize() { t.Description = strings.TrimSpace(t.Description) }

func (t NewTask) Validate() error {
	return toValidationError(validation.ValidateStruct(&t,
		validation.Field(&t.Description, validation.Required),
	))
}

func (p *TaskPatch) Normalize() {
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		p.Description = &d
	}
}

func (p TaskPatch) Validate() error {
	return toValidationError(validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.By(requiredIfSet)),
	))
}

// requiredIfSet rejects a present-but-empty string pointer.
func requiredIfSet(value interface{}) error {
	if s, ok := value.(*string); ok && s != nil && *s == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		out := &ValidationError{Fields: make(map[string]string, len(errs))}
		for field, fe := range errs {
			out.Fields[field] = fe.Error()
		}
		return out
	}
	return NewValidationError("body", err.Error())
}
