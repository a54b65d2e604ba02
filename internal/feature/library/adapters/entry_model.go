package adapters

import (
	"time"

	"library_backend/internal/feature/library/domain/entity"
)

// EntryModel is the GORM model for the library_entries table.
// The composite unique index on (owner_id, source_id) is what makes duplicate saves atomic.
// Catalog-supplied strings are unbounded text; only the enum status is sized.
type EntryModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OwnerID        uint      `gorm:"not null;uniqueIndex:idx_library_owner_source,priority:1;index:idx_library_owner_status_created,priority:1"`
	SourceID       string    `gorm:"type:text;not null;uniqueIndex:idx_library_owner_source,priority:2"`
	Title          string    `gorm:"type:text;not null"`
	Authors        []string  `gorm:"serializer:json"`
	Description    string    `gorm:"type:text"`
	ThumbnailURL   string    `gorm:"type:text"`
	PreviewURL     string    `gorm:"type:text"`
	Status         string    `gorm:"size:16;not null;index:idx_library_owner_status_created,priority:2;check:chk_library_entries_status,status IN ('Want to Read','Reading','Completed')"`
	PersonalReview string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_library_owner_status_created,priority:3"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (EntryModel) TableName() string {
	return "library_entries"
}

// ToEntity converts the GORM model to a domain entity.
func (m *EntryModel) ToEntity() entity.Entry {
	authors := m.Authors
	if authors == nil {
		authors = []string{}
	}
	return entity.Entry{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		SourceID:       m.SourceID,
		Title:          m.Title,
		Authors:        authors,
		Description:    m.Description,
		ThumbnailURL:   m.ThumbnailURL,
		PreviewURL:     m.PreviewURL,
		Status:         entity.Status(m.Status),
		PersonalReview: m.PersonalReview,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// EntryModelFromEntity converts a domain entity to a GORM model.
func EntryModelFromEntity(e *entity.Entry) *EntryModel {
	return &EntryModel{
		ID:             e.ID,
		OwnerID:        e.OwnerID,
		SourceID:       e.SourceID,
		Title:          e.Title,
		Authors:        e.Authors,
		Description:    e.Description,
		ThumbnailURL:   e.ThumbnailURL,
		PreviewURL:     e.PreviewURL,
		Status:         string(e.Status),
		PersonalReview: e.PersonalReview,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
