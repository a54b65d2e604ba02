package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"library_backend/internal/feature/library/domain/entity"
)

const (
	// DefaultPage is used when the requested page is missing or below 1.
	DefaultPage = 1
	// DefaultPageSize is used when the requested page size is missing or below 1.
	DefaultPageSize = 12
	// MaxPageSize caps the page size a client may ask for.
	MaxPageSize = 100

	// MaxDescriptionLength is the stored description limit in characters. Longer input is truncated.
	MaxDescriptionLength = 1000
	// MaxReviewLength is the personal review limit in characters. Longer input is rejected.
	MaxReviewLength = 5000
)

// EntryRepository abstracts the persistence layer for library entries.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type EntryRepository interface {
	// Create inserts a new entry. The store enforces (owner, source) uniqueness atomically
	// and returns ErrDuplicateEntry when it is violated.
	Create(ctx context.Context, e *entity.Entry) error

	// FindByID returns ErrEntryNotFound when no entry has the given ID.
	FindByID(ctx context.Context, id string) (*entity.Entry, error)

	// FindByOwnerAndSource returns ErrEntryNotFound when the owner has not saved the source book.
	FindByOwnerAndSource(ctx context.Context, ownerID uint, sourceID string) (*entity.Entry, error)

	// FindByOwner returns one page of the owner's entries, newest first.
	// An empty status means no filter.
	FindByOwner(ctx context.Context, ownerID uint, status entity.Status, offset, limit int) ([]entity.Entry, error)

	// CountByOwner counts the owner's entries matching the status filter.
	CountByOwner(ctx context.Context, ownerID uint, status entity.Status) (int64, error)

	// Update persists Status, PersonalReview and UpdatedAt of an existing entry.
	Update(ctx context.Context, e *entity.Entry) error

	// Delete removes the entry with the given ID owned by ownerID.
	Delete(ctx context.Context, id string, ownerID uint) error
}

// Candidate is a catalog book the user wants to save.
type Candidate struct {
	SourceID     string
	Title        string
	Authors      []string
	Description  string
	ThumbnailURL string
	PreviewURL   string
}

// ListQuery selects a page of the owner's library.
type ListQuery struct {
	Status   string
	Page     int
	PageSize int
}

// Page is one page of library entries plus pagination totals.
type Page struct {
	Entries    []entity.Entry
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	PersonalReview *string
	Status         *string
}

// libraryUsecase implements the library business rules.
type libraryUsecase struct {
	entries EntryRepository
	now     func() time.Time
	newID   func() string
}

// NewLibraryUsecase creates a new instance of libraryUsecase.
func NewLibraryUsecase(entries EntryRepository) *libraryUsecase {
	return &libraryUsecase{
		entries: entries,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Save adds a catalog book to the owner's library with the default status and an empty review.
func (u *libraryUsecase) Save(ctx context.Context, ownerID uint, c Candidate) (*entity.Entry, error) {
	c = normalizeCandidate(c)
	if c.SourceID == "" || c.Title == "" {
		return nil, fmt.Errorf("%w: source id and title are required", ErrValidation)
	}

	// Pre-check for a friendly error; the unique index below still decides races.
	_, err := u.entries.FindByOwnerAndSource(ctx, ownerID, c.SourceID)
	switch {
	case err == nil:
		return nil, ErrDuplicate
	case !errors.Is(err, ErrEntryNotFound):
		return nil, storageError(err)
	}

	now := u.now()
	e := &entity.Entry{
		ID:             u.newID(),
		OwnerID:        ownerID,
		SourceID:       c.SourceID,
		Title:          c.Title,
		Authors:        c.Authors,
		Description:    c.Description,
		ThumbnailURL:   c.ThumbnailURL,
		PreviewURL:     c.PreviewURL,
		Status:         entity.StatusWantToRead,
		PersonalReview: "",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.entries.Create(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return nil, ErrDuplicate
		}
		return nil, storageError(err)
	}
	return e, nil
}

// List returns a page of the owner's entries, newest first.
// An unknown status filter is rejected, matching Update's validation of the same field.
func (u *libraryUsecase) List(ctx context.Context, ownerID uint, q ListQuery) (*Page, error) {
	status := entity.Status(strings.TrimSpace(q.Status))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, q.Status)
	}

	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	total, err := u.entries.CountByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, storageError(err)
	}
	entries, err := u.entries.FindByOwner(ctx, ownerID, status, (page-1)*size, size)
	if err != nil {
		return nil, storageError(err)
	}
	if entries == nil {
		entries = []entity.Entry{}
	}

	return &Page{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// Get returns a single entry owned by ownerID.
func (u *libraryUsecase) Get(ctx context.Context, ownerID uint, id string) (*entity.Entry, error) {
	return u.owned(ctx, ownerID, id)
}

// Update applies the provided fields of p to the entry and bumps UpdatedAt.
// Ownership is checked before the payload is looked at.
func (u *libraryUsecase) Update(ctx context.Context, ownerID uint, id string, p Patch) (*entity.Entry, error) {
	e, err := u.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updated := *e
	if p.Status != nil {
		s := entity.Status(strings.TrimSpace(*p.Status))
		if !s.Valid() {
			return nil, fmt.Errorf("%w: status must be one of %q, %q or %q",
				ErrValidation, entity.StatusWantToRead, entity.StatusReading, entity.StatusCompleted)
		}
		updated.Status = s
	}
	if p.PersonalReview != nil {
		review := strings.TrimSpace(*p.PersonalReview)
		if utf8.RuneCountInString(review) > MaxReviewLength {
			return nil, fmt.Errorf("%w: personal review must be at most %d characters", ErrValidation, MaxReviewLength)
		}
		updated.PersonalReview = review
	}
	updated.UpdatedAt = u.now()

	if err := u.entries.Update(ctx, &updated); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	return &updated, nil
}

// Delete permanently removes the entry.
func (u *libraryUsecase) Delete(ctx context.Context, ownerID uint, id string) error {
	if _, err := u.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := u.entries.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}
	return nil
}

// owned loads the entry and distinguishes a missing entry (ErrNotFound) from another user's entry (ErrForbidden).
func (u *libraryUsecase) owned(ctx context.Context, ownerID uint, id string) (*entity.Entry, error) {
	e, err := u.entries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}
	if !e.OwnedBy(ownerID) {
		return nil, ErrForbidden
	}
	return e, nil
}

func normalizeCandidate(c Candidate) Candidate {
	authors := make([]string, 0, len(c.Authors))
	for _, a := range c.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return Candidate{
		SourceID:     strings.TrimSpace(c.SourceID),
		Title:        strings.TrimSpace(c.Title),
		Authors:      authors,
		Description:  truncate(strings.TrimSpace(c.Description), MaxDescriptionLength),
		ThumbnailURL: strings.TrimSpace(c.ThumbnailURL),
		PreviewURL:   strings.TrimSpace(c.PreviewURL),
	}
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
