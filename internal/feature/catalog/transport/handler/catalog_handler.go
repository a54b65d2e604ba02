// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library_backend/internal/api"
	"library_backend/internal/feature/catalog/transport/http/dto"
	"library_backend/internal/feature/catalog/usecase"
)

// クライアントに返すメッセージ
const (
	MsgSearchUnavailable = "Book search is temporarily unavailable"
	MsgInternal          = "Internal server error"
)

// CatalogUsecase は書籍検索のユースケースを定義します。
type CatalogUsecase interface {
	Search(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error)
}

// CatalogHandler は書籍検索のHTTPリクエストを処理します。
type CatalogHandler struct {
	catalog CatalogUsecase
}

// NewCatalogHandler はCatalogHandlerの新しいインスタンスを生成します。
func NewCatalogHandler(catalog CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search は GET /books/search を処理します。
// - query は必須、page は数値でなければ1ページ目として扱う
// - 検索条件の誤りは400、外部APIの障害は503を返却
func (h *CatalogHandler) Search(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	res, err := h.catalog.Search(
		c.Request.Context(),
		c.Query("query"),
		page,
		c.Query("filter"),
		c.Query("printType"),
	)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, api.Fail(validationMessage(err)))
		case errors.Is(err, usecase.ErrSearchUnavailable):
			log.Error().Err(err).Msg("book search failed")
			c.JSON(http.StatusServiceUnavailable, api.Fail(MsgSearchUnavailable))
		default:
			log.Error().Err(err).Msg("book search failed")
			c.JSON(http.StatusInternalServerError, api.Fail(MsgInternal))
		}
		return
	}

	c.JSON(http.StatusOK, api.SearchResponse{
		Success:     true,
		TotalItems:  res.TotalItems,
		Books:       dto.FromCandidates(res.Books),
		CurrentPage: res.Page,
	})
}

// validationMessage は "validation failed: " の接頭辞を取り除いたメッセージを返します。
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), usecase.ErrValidation.Error()+": ")
}
