package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internal/feature/catalog/domain/entity"
)

// mockBookCatalog is a mock implementation of the BookCatalog interface.
type mockBookCatalog struct {
	SearchFunc func(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error)
	calls      int
	last       entity.SearchQuery
}

func (m *mockBookCatalog) Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
	m.calls++
	m.last = q
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return &entity.SearchResult{}, nil
}

func TestCatalogUsecase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the query before calling the catalog", func(t *testing.T) {
		catalog := &mockBookCatalog{
			SearchFunc: func(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
				return &entity.SearchResult{
					Books:      []entity.CandidateBook{{SourceID: "vol-1", Title: "Dune"}},
					TotalItems: 40,
				}, nil
			},
		}
		uc := NewCatalogUsecase(catalog)

		page, err := uc.Search(ctx, "  dune  ", 3, "FREE", " Books ")

		require.NoError(t, err)
		assert.Equal(t, entity.SearchQuery{Query: "dune", Page: 3, PrintType: "books", FreeOnly: true}, catalog.last)
		assert.Equal(t, 3, page.Page)
		assert.Equal(t, 40, page.TotalItems)
		assert.Len(t, page.Books, 1)
	})

	t.Run("page below one is treated as the first page", func(t *testing.T) {
		for _, p := range []int{0, -4} {
			catalog := &mockBookCatalog{}
			uc := NewCatalogUsecase(catalog)

			page, err := uc.Search(ctx, "dune", p, "", "")

			require.NoError(t, err)
			assert.Equal(t, 1, page.Page)
			assert.Equal(t, 1, catalog.last.Page)
		}
	})

	t.Run("unknown filter values are ignored", func(t *testing.T) {
		catalog := &mockBookCatalog{}
		uc := NewCatalogUsecase(catalog)

		_, err := uc.Search(ctx, "dune", 1, "paid-ebooks", "")

		require.NoError(t, err)
		assert.False(t, catalog.last.FreeOnly)
	})

	t.Run("nil books become an empty list", func(t *testing.T) {
		uc := NewCatalogUsecase(&mockBookCatalog{})

		page, err := uc.Search(ctx, "nothing matches", 1, "", "")

		require.NoError(t, err)
		assert.NotNil(t, page.Books)
		assert.Empty(t, page.Books)
	})

	t.Run("validation failures do not reach the catalog", func(t *testing.T) {
		tests := []struct {
			name      string
			query     string
			printType string
		}{
			{"empty query", "", ""},
			{"blank query", "   ", ""},
			{"unsupported print type", "dune", "comics"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				catalog := &mockBookCatalog{}
				uc := NewCatalogUsecase(catalog)

				_, err := uc.Search(ctx, tt.query, 1, "", tt.printType)

				assert.ErrorIs(t, err, ErrValidation)
				assert.Zero(t, catalog.calls)
			})
		}
	})

	t.Run("empty query message", func(t *testing.T) {
		uc := NewCatalogUsecase(&mockBookCatalog{})

		_, err := uc.Search(ctx, "", 1, "", "")

		assert.EqualError(t, err, "validation failed: Search query is required")
	})

	t.Run("provider failures surface as unavailable", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
		}{
			{"already classified", ErrSearchUnavailable},
			{"raw provider error", errors.New("dial tcp: i/o timeout")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc := NewCatalogUsecase(&mockBookCatalog{
					SearchFunc: func(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
						return nil, tt.err
					},
				})

				_, err := uc.Search(ctx, "dune", 1, "", "")

				assert.ErrorIs(t, err, ErrSearchUnavailable)
			})
		}
	})
}
