package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	// ErrMalformedBody means the body was missing, not JSON, had unknown fields or wrong types.
	ErrMalformedBody = errors.New("invalid request body")

	// ErrInvalidFields means the body decoded but failed `binding` tag validation.
	ErrInvalidFields = errors.New("invalid request fields")
)

// BindStrictJSON decodes the request body into obj, rejecting unknown fields and
// values of the wrong JSON type, then runs the `binding` tag validation.
// Errors wrap ErrMalformedBody or ErrInvalidFields.
func BindStrictJSON(c *gin.Context, obj any) error {
	if c.Request == nil || c.Request.Body == nil {
		return fmt.Errorf("%w: request body is required", ErrMalformedBody)
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedBody)
	}
	if binding.Validator == nil {
		return nil
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFields, err)
	}
	return nil
}
