package dto

import (
	"library_backend/internal/api"
	"library_backend/internal/feature/library/domain/entity"
)

// FromEntry はエンティティをレスポンス用の形式に変換します。
func FromEntry(e *entity.Entry) api.Book {
	authors := e.Authors
	if authors == nil {
		authors = []string{}
	}
	return api.Book{
		ID:             e.ID,
		OwnerID:        e.OwnerID,
		SourceID:       e.SourceID,
		Title:          e.Title,
		Authors:        authors,
		Description:    e.Description,
		ThumbnailURL:   e.ThumbnailURL,
		PreviewURL:     e.PreviewURL,
		Status:         string(e.Status),
		PersonalReview: e.PersonalReview,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// FromEntries は一覧を変換します。空でも nil ではなく空配列を返します。
func FromEntries(entries []entity.Entry) []api.Book {
	out := make([]api.Book, 0, len(entries))
	for i := range entries {
		out = append(out, FromEntry(&entries[i]))
	}
	return out
}
