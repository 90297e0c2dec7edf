package webutil

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the shared validator instance. Field names in errors come
// from JSON tags so they match what clients actually sent.
var Validator *validator.Validate

func init() {
	Validator = validator.New()

	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
