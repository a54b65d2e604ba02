// Package dto はlibraryフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "library_backend/internal/feature/library/usecase"

// SaveBookReq は POST /books のリクエストボディを表します。
// カタログ検索結果の1冊をそのまま受け取ります。
type SaveBookReq struct {
	SourceID     string   `json:"sourceId" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Authors      []string `json:"authors"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	PreviewURL   string   `json:"previewUrl"`
}

// ToCandidate はリクエストをusecaseの入力に変換します。
func (r SaveBookReq) ToCandidate() usecase.Candidate {
	return usecase.Candidate{
		SourceID:     r.SourceID,
		Title:        r.Title,
		Authors:      r.Authors,
		Description:  r.Description,
		ThumbnailURL: r.ThumbnailURL,
		PreviewURL:   r.PreviewURL,
	}
}

// UpdateBookReq は PUT /books/:id のリクエストボディを表します。
// 省略されたフィールドは変更しません。
type UpdateBookReq struct {
	PersonalReview *string `json:"personalReview"`
	Status         *string `json:"status"`
}

// ToPatch はリクエストをusecaseの部分更新に変換します。
func (r UpdateBookReq) ToPatch() usecase.Patch {
	return usecase.Patch{
		PersonalReview: r.PersonalReview,
		Status:         r.Status,
	}
}
