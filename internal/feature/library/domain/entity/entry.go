// Package entity defines the domain entities for the library feature.
package entity

import "time"

// Status is the reading progress of a saved book.
type Status string

const (
	StatusWantToRead Status = "Want to Read"
	StatusReading    Status = "Reading"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status that may be persisted, in display order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusCompleted}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// Entry is a book saved to a user's library.
// OwnerID is fixed at creation; only Status and PersonalReview change afterwards.
type Entry struct {
	ID             string
	OwnerID        uint
	SourceID       string
	Title          string
	Authors        []string
	Description    string
	ThumbnailURL   string
	PreviewURL     string
	Status         Status
	PersonalReview string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether the entry belongs to the given user.
func (e *Entry) OwnedBy(userID uint) bool {
	return e.OwnerID == userID
}
