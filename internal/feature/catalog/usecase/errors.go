// Package usecase implements the business logic for the catalog feature.
package usecase

import "errors"

var (
	// ErrValidation is returned when the search parameters are unusable.
	ErrValidation = errors.New("validation failed")

	// ErrSearchUnavailable is returned for any provider failure: missing API key,
	// transport error, error status or an undecodable body.
	ErrSearchUnavailable = errors.New("book search is unavailable")
)
