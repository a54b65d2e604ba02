// Package adapters provides repository implementations for the library feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"library_backend/internal/feature/library/domain/entity"
	"library_backend/internal/feature/library/usecase"
	platformdb "library_backend/internal/platform/db"
)

// entryGorm is a GORM implementation of the EntryRepository interface.
// It runs on both PostgreSQL and SQLite.
type entryGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure entryGorm implements EntryRepository.
var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryRepository creates a new instance of entryGorm.
func NewEntryRepository(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Create inserts a new entry. A unique index violation on (owner_id, source_id)
// is reported as usecase.ErrDuplicateEntry.
func (r *entryGorm) Create(ctx context.Context, e *entity.Entry) error {
	if e == nil {
		return errors.New("entry is nil")
	}
	model := EntryModelFromEntity(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if platformdb.IsUniqueViolation(err) {
			return usecase.ErrDuplicateEntry
		}
		return err
	}
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID retrieves an entry by its ID regardless of owner.
func (r *entryGorm) FindByID(ctx context.Context, id string) (*entity.Entry, error) {
	var model EntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	e := model.ToEntity()
	return &e, nil
}

// FindByOwnerAndSource retrieves the owner's entry for a catalog book.
func (r *entryGorm) FindByOwnerAndSource(ctx context.Context, ownerID uint, sourceID string) (*entity.Entry, error) {
	var model EntryModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND source_id = ?", ownerID, sourceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	e := model.ToEntity()
	return &e, nil
}

// FindByOwner returns a page of the owner's entries ordered newest first.
func (r *entryGorm) FindByOwner(ctx context.Context, ownerID uint, status entity.Status, offset, limit int) ([]entity.Entry, error) {
	var models []EntryModel
	q := r.ownerScope(ctx, ownerID, status).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Entry, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// CountByOwner returns how many entries of the owner match the status filter.
func (r *entryGorm) CountByOwner(ctx context.Context, ownerID uint, status entity.Status) (int64, error) {
	var count int64
	err := r.ownerScope(ctx, ownerID, status).Count(&count).Error
	return count, err
}

// Update writes the mutable columns of an entry in a single statement.
// owner_id is part of the filter and never part of the SET list.
func (r *entryGorm) Update(ctx context.Context, e *entity.Entry) error {
	result := r.db.WithContext(ctx).
		Model(&EntryModel{}).
		Where("id = ? AND owner_id = ?", e.ID, e.OwnerID).
		Updates(map[string]any{
			"status":          string(e.Status),
			"personal_review": e.PersonalReview,
			"updated_at":      e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrEntryNotFound
	}
	return nil
}

// Delete removes an entry owned by ownerID.
func (r *entryGorm) Delete(ctx context.Context, id string, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&EntryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrEntryNotFound
	}
	return nil
}

func (r *entryGorm) ownerScope(ctx context.Context, ownerID uint, status entity.Status) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&EntryModel{}).Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	return q
}
