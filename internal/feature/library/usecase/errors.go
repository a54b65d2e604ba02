// Package usecase implements the business logic for the library feature.
package usecase

import "errors"

var (
	// ErrValidation is returned when input fails a field rule. It is wrapped with the offending detail.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is returned when the owner has already saved the same catalog book.
	ErrDuplicate = errors.New("book already in library")

	// ErrNotFound is returned when no entry exists with the requested ID.
	ErrNotFound = errors.New("book not found")

	// ErrForbidden is returned when the entry exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this book")

	// ErrStorage wraps unexpected persistence failures.
	ErrStorage = errors.New("storage failure")

	// ErrEntryNotFound is returned by repositories when a lookup matches no row.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrDuplicateEntry is returned by repositories when the (owner, source) unique index rejects an insert.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
