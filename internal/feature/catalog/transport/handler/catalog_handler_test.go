package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internal/feature/catalog/domain/entity"
	"library_backend/internal/feature/catalog/transport/handler"
	"library_backend/internal/feature/catalog/usecase"
)

type mockCatalogUsecase struct {
	SearchFunc func(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error)
}

func (m *mockCatalogUsecase) Search(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error) {
	return m.SearchFunc(ctx, query, page, filter, printType)
}

func serveSearch(uc handler.CatalogUsecase, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/books/search", handler.NewCatalogHandler(uc).Search)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler_Search_OK(t *testing.T) {
	uc := &mockCatalogUsecase{
		SearchFunc: func(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error) {
			assert.Equal(t, "dune", query)
			assert.Equal(t, 2, page)
			assert.Equal(t, "free", filter)
			assert.Equal(t, "books", printType)
			return &usecase.SearchPage{
				SearchResult: entity.SearchResult{
					Books: []entity.CandidateBook{{
						SourceID:     "vol-1",
						Title:        "Dune",
						Description:  "Arrakis",
						ThumbnailURL: "http://img/1",
						PreviewURL:   "http://preview/1",
					}},
					TotalItems: 31,
				},
				Page: 2,
			}, nil
		},
	}

	w := serveSearch(uc, "/books/search?query=dune&page=2&filter=free&printType=books")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"totalItems": 31,
		"currentPage": 2,
		"books": [{
			"sourceId": "vol-1",
			"title": "Dune",
			"authors": [],
			"description": "Arrakis",
			"thumbnailUrl": "http://img/1",
			"previewUrl": "http://preview/1"
		}]
	}`, w.Body.String())
}

func TestCatalogHandler_Search_NonNumericPage(t *testing.T) {
	uc := &mockCatalogUsecase{
		SearchFunc: func(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error) {
			assert.Equal(t, 1, page)
			return &usecase.SearchPage{SearchResult: entity.SearchResult{Books: []entity.CandidateBook{}}, Page: 1}, nil
		},
	}

	w := serveSearch(uc, "/books/search?query=dune&page=abc")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"totalItems":0,"currentPage":1,"books":[]}`, w.Body.String())
}

func TestCatalogHandler_Search_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing query",
			err:            fmt.Errorf("%w: Search query is required", usecase.ErrValidation),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"Search query is required"}`,
		},
		{
			name:           "provider down",
			err:            fmt.Errorf("%w: google books http 500", usecase.ErrSearchUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"success":false,"message":"Book search is temporarily unavailable"}`,
		},
		{
			name:           "unexpected",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockCatalogUsecase{
				SearchFunc: func(ctx context.Context, query string, page int, filter, printType string) (*usecase.SearchPage, error) {
					return nil, tt.err
				},
			}

			w := serveSearch(uc, "/books/search?query=dune")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
