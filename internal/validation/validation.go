// Package validation builds the request validator shared by the controllers.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports JSON field names and knows the
// "notblank" tag (non-empty after trimming whitespace).
func New() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() == reflect.String {
			return strings.TrimSpace(fl.Field().String()) != ""
		}
		return !fl.Field().IsZero()
	})

	return validate
}
