package showcase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks drafts against the struct tags on domain entities
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json name
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return &ValidationError{Fields: fields}
}

// FieldError is one failed field rule
type FieldError struct {
	Field string
	Tag   string
}

func (e FieldError) String() string {
	switch e.Tag {
	case "required":
		return e.Field + " is required"
	case "http_url", "url":
		return e.Field + " must be an http(s) URL"
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
	}
}

// ValidationError lists the fields of a draft that failed validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
