package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"uniflash/internal/model"

	"github.com/go-playground/validator/v10"
)

// DecodeJSONBody decodes the request body into dst and rejects unknown
// fields.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("EMPTY_BODY", "A request body is required.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return model.NewAppError("MALFORMED_BODY", "The request body is not valid JSON.", "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeAndValidate decodes the body and runs struct validation in one
// step; handlers call this for every mutating request.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	if err := Validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationErrorResponse(verrs)
		}
		return model.NewAppError("VALIDATION_ERROR", "The request failed validation.", "", model.ErrInvalidInput)
	}
	return nil
}
