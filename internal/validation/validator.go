// Package validation wraps go-playground/validator with a shared instance and
// turns its errors into per-field messages that forms can render inline.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report form field names rather than Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// Any reports whether any field failed.
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// First returns the first message for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error implements error so FieldErrors can travel through error returns.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct runs the struct tags of s. It returns nil or FieldErrors.
func ValidateStruct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	fe := FieldErrors{}
	for _, v := range verrs {
		fe.Add(fieldPath(v), message(v))
	}
	return fe
}

// fieldPath drops the top-level struct name: "Config.Auth.jwt_secret" -> "Auth.jwt_secret".
func fieldPath(v validator.FieldError) string {
	ns := v.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return v.Field()
}

func message(v validator.FieldError) string {
	switch v.Tag() {
	case "required", "required_if":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if v.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", v.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", v.Param())
	case "max":
		if v.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", v.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", v.Param())
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", v.Param())
	case "alphanum":
		return "Only letters and digits are allowed."
	default:
		return fmt.Sprintf("Failed on the %q rule.", v.Tag())
	}
}
