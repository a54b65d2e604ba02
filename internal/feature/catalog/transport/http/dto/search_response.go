package dto

import (
	"library_backend/internal/api"
	"library_backend/internal/feature/catalog/domain/entity"
)

// FromCandidates はカタログの検索結果をレスポンス形式に変換します。
func FromCandidates(books []entity.CandidateBook) []api.CatalogBook {
	out := make([]api.CatalogBook, 0, len(books))
	for _, b := range books {
		authors := b.Authors
		if authors == nil {
			authors = []string{}
		}
		out = append(out, api.CatalogBook{
			SourceID:     b.SourceID,
			Title:        b.Title,
			Authors:      authors,
			Description:  b.Description,
			ThumbnailURL: b.ThumbnailURL,
			PreviewURL:   b.PreviewURL,
		})
	}
	return out
}
