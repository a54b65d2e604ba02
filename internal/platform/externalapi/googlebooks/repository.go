package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"library_backend/internal/feature/catalog/domain/entity"
	"library_backend/internal/feature/catalog/usecase"
	"library_backend/internal/platform/externalapi/googlebooks/dto"
)

// GoogleBooksCatalog はGoogle Books APIから書籍を検索するBookCatalog実装です。
type GoogleBooksCatalog struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// GoogleBooksCatalogがBookCatalogを実装していることをコンパイル時に検証します。
var _ usecase.BookCatalog = (*GoogleBooksCatalog)(nil)

// NewGoogleBooksCatalog は指定された設定とHTTPクライアントでGoogleBooksCatalogの新しいインスタンスを生成します。
// RPSが0以下の場合はレート制限を行いません。
func NewGoogleBooksCatalog(cfg Config, client *http.Client) *GoogleBooksCatalog {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &GoogleBooksCatalog{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// unavailable はすべての失敗を ErrSearchUnavailable としてラップします。
func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", usecase.ErrSearchUnavailable, fmt.Sprintf(format, args...))
}

// Search はGoogle Books APIを1回だけ呼び出し、結果をドメインエンティティに変換します。
// 内部でのリトライは行いません。
func (g *GoogleBooksCatalog) Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
	if g.cfg.APIKey == "" {
		return nil, unavailable("google books api key is not configured")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	// クエリパラメータを追加
	v := url.Values{}
	v.Set("q", q.Query)
	v.Set("key", g.cfg.APIKey)
	v.Set("maxResults", strconv.Itoa(PageSize))
	v.Set("startIndex", strconv.Itoa((page-1)*PageSize))
	if q.FreeOnly {
		v.Set("filter", "free-ebooks")
	}
	if q.PrintType != "" {
		v.Set("printType", q.PrintType)
	}

	u := fmt.Sprintf("%s/volumes?%s", strings.TrimRight(g.cfg.BaseURL, "/"), v.Encode())

	// 送信レートを制限
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, unavailable("rate limiter: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, unavailable("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	// リクエストを実行
	res, err := g.client.Do(req)
	if err != nil {
		// エラーメッセージにはAPIキーを含むURLが入るため出力しない
		return nil, unavailable("request failed")
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if res.StatusCode >= 400 {
		return nil, unavailable("google books http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.VolumesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, unavailable("decode response: %v", err)
	}

	books := make([]entity.CandidateBook, 0, len(body.Items))
	for _, item := range body.Items {
		// IDのない結果は保存できないため除外する
		if item.ID == "" {
			continue
		}
		books = append(books, toCandidate(item))
	}

	return &entity.SearchResult{Books: books, TotalItems: body.TotalItems}, nil
}

// toCandidate は1件の検索結果をドメインエンティティに変換します。
func toCandidate(item dto.Volume) entity.CandidateBook {
	info := item.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = unknownTitle
	}
	authors := info.Authors
	if authors == nil {
		authors = []string{}
	}
	thumbnail := ""
	if info.ImageLinks != nil {
		thumbnail = info.ImageLinks.Thumbnail
	}

	return entity.CandidateBook{
		SourceID:     item.ID,
		Title:        title,
		Authors:      authors,
		Description:  info.Description,
		ThumbnailURL: thumbnail,
		PreviewURL:   info.PreviewLink,
	}
}
