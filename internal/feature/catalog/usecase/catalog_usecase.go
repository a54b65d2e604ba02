package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"library_backend/internal/feature/catalog/domain/entity"
)

// FilterFree はフリー電子書籍のみに絞り込むフィルター値です。
const FilterFree = "free"

// printTypes は外部APIが受け付ける printType の値です。空文字は指定なしを表します。
var printTypes = map[string]struct{}{
	"":          {},
	"all":       {},
	"books":     {},
	"magazines": {},
}

// BookCatalog は外部書籍カタログを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/externalapi）ではなくコンシューマー（usecase）が定義します。
type BookCatalog interface {
	// Search は1ページ分の検索結果を返します。失敗時は ErrSearchUnavailable を返します。
	Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error)
}

// SearchPage は検索結果と実際に使用したページ番号です。
type SearchPage struct {
	entity.SearchResult
	Page int
}

// catalogUsecase は書籍検索のビジネスロジックを実装します。
type catalogUsecase struct {
	catalog BookCatalog
}

// NewCatalogUsecase はcatalogUsecaseの新しいインスタンスを生成します。
func NewCatalogUsecase(catalog BookCatalog) *catalogUsecase {
	return &catalogUsecase{catalog: catalog}
}

// Search は検索条件を検証・正規化し、カタログに問い合わせます。
// ライブラリストアには一切アクセスしません。
func (u *catalogUsecase) Search(ctx context.Context, query string, page int, filter, printType string) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: Search query is required", ErrValidation)
	}
	// 1未満のページは1ページ目として扱う
	if page < 1 {
		page = 1
	}
	printType = strings.ToLower(strings.TrimSpace(printType))
	if _, ok := printTypes[printType]; !ok {
		return nil, fmt.Errorf("%w: printType must be one of all, books or magazines", ErrValidation)
	}

	res, err := u.catalog.Search(ctx, entity.SearchQuery{
		Query:     query,
		Page:      page,
		PrintType: printType,
		FreeOnly:  strings.EqualFold(strings.TrimSpace(filter), FilterFree),
	})
	if err != nil {
		if errors.Is(err, ErrSearchUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	books := res.Books
	if books == nil {
		books = []entity.CandidateBook{}
	}
	return &SearchPage{
		SearchResult: entity.SearchResult{Books: books, TotalItems: res.TotalItems},
		Page:         page,
	}, nil
}
