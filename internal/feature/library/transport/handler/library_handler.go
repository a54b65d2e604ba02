// Package handler はlibraryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library_backend/internal/api"
	"library_backend/internal/feature/library/domain/entity"
	"library_backend/internal/feature/library/transport/http/dto"
	"library_backend/internal/feature/library/usecase"
	jwtmw "library_backend/internal/platform/jwt"
)

// クライアントに返すメッセージ
const (
	MsgSaved        = "Book saved to library"
	MsgUpdated      = "Book updated successfully"
	MsgDeleted      = "Book deleted from library"
	MsgDuplicate    = "This book is already in your library"
	MsgNotFound     = "Book not found"
	MsgForbidden    = "Not authorized to access this book"
	MsgInternal     = "Internal server error"
	MsgUnauthorized = "Unauthorized"

	MsgRequiredFields = "Google Book ID and title are required"
	MsgInvalidBody    = "Invalid request body"
)

// LibraryUsecase は本棚操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LibraryUsecase interface {
	Save(ctx context.Context, ownerID uint, c usecase.Candidate) (*entity.Entry, error)
	List(ctx context.Context, ownerID uint, q usecase.ListQuery) (*usecase.Page, error)
	Get(ctx context.Context, ownerID uint, id string) (*entity.Entry, error)
	Update(ctx context.Context, ownerID uint, id string, p usecase.Patch) (*entity.Entry, error)
	Delete(ctx context.Context, ownerID uint, id string) error
}

// LibraryHandler は本棚のHTTPリクエストを処理します。
// すべてのルートは jwtmw.AuthRequired の後ろに登録される前提です。
type LibraryHandler struct {
	uc LibraryUsecase
}

// NewLibraryHandler は指定されたusecaseでLibraryHandlerの新しいインスタンスを生成します。
func NewLibraryHandler(uc LibraryUsecase) *LibraryHandler {
	return &LibraryHandler{uc: uc}
}

// Save はカタログの本を本棚に追加します。
//
// エンドポイント例:
// POST /books
func (h *LibraryHandler) Save(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SaveBookReq
	if err := api.BindStrictJSON(c, &req); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("save book request rejected")
		msg := MsgInvalidBody
		if errors.Is(err, api.ErrInvalidFields) {
			msg = MsgRequiredFields
		}
		c.JSON(http.StatusBadRequest, api.Fail(msg))
		return
	}

	e, err := h.uc.Save(c.Request.Context(), userID, req.ToCandidate())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.BookResponse{Success: true, Message: MsgSaved, Book: dto.FromEntry(e)})
}

// List は自分の本棚を新しい順にページ単位で返します。
//
// エンドポイント例:
// GET /books?page=2&limit=12&status=Reading
func (h *LibraryHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// 数値でない値は0としてusecaseに渡し、デフォルト値への変換はusecaseに任せる
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	p, err := h.uc.List(c.Request.Context(), userID, usecase.ListQuery{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.BooksResponse{
		Success:     true,
		Books:       dto.FromEntries(p.Entries),
		TotalBooks:  p.Total,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages,
	})
}

// Get は本棚の1冊を返します。
//
// エンドポイント例:
// GET /books/:id
func (h *LibraryHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	e, err := h.uc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.BookResponse{Success: true, Book: dto.FromEntry(e)})
}

// Update は読書ステータスと感想を更新します。
//
// エンドポイント例:
// PUT /books/:id
func (h *LibraryHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateBookReq
	if err := api.BindStrictJSON(c, &req); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("update book request rejected")
		c.JSON(http.StatusBadRequest, api.Fail(MsgInvalidBody))
		return
	}

	e, err := h.uc.Update(c.Request.Context(), userID, c.Param("id"), req.ToPatch())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.BookResponse{Success: true, Message: MsgUpdated, Book: dto.FromEntry(e)})
}

// Delete は本棚から1冊を削除します。
//
// エンドポイント例:
// DELETE /books/:id
func (h *LibraryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OK(MsgDeleted))
}

// currentUser はミドルウェアが設定したユーザーIDを取り出します。
// 取得できない場合は401を返して処理を中断します。
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail(MsgUnauthorized))
		return 0, false
	}
	return userID, true
}

// writeError はusecaseのエラーをHTTPステータスに変換します。
func (h *LibraryHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	case errors.Is(err, usecase.ErrDuplicate):
		c.JSON(http.StatusBadRequest, api.Fail(MsgDuplicate))
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.Fail(MsgNotFound))
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, api.Fail(MsgForbidden))
	default:
		// 内部エラーの詳細はクライアントに返さずログにのみ残す
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("library request failed")
		c.JSON(http.StatusInternalServerError, api.Fail(MsgInternal))
	}
}
