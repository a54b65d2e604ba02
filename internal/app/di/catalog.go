// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	cataloghandler "library_backend/internal/feature/catalog/transport/handler"
	catalogusecase "library_backend/internal/feature/catalog/usecase"
	"library_backend/internal/platform/cache"
	"library_backend/internal/platform/config"
	"library_backend/internal/platform/externalapi/googlebooks"
	infrahttp "library_backend/internal/platform/http"
)

// NewCatalog creates a Google Books backed catalog, wrapped with the Redis cache.
// A nil rdb leaves the cache disabled.
func NewCatalog(cfg *config.Config, rdb *redis.Client) catalogusecase.BookCatalog {
	httpClient := infrahttp.NewHTTPClient(cfg.CatalogTimeout)
	provider := googlebooks.NewGoogleBooksCatalog(googlebooks.Config{
		APIKey:  cfg.GoogleBooksAPIKey,
		BaseURL: cfg.GoogleBooksBaseURL,
		Timeout: cfg.CatalogTimeout,
		RPS:     cfg.CatalogRPS,
		Burst:   1,
	}, httpClient)
	return cache.NewCachingCatalog(rdb, cfg.CatalogCacheTTL, provider, "catalog")
}

// NewCatalogHandler wires the search endpoint on top of a BookCatalog.
func NewCatalogHandler(catalog catalogusecase.BookCatalog) *cataloghandler.CatalogHandler {
	return cataloghandler.NewCatalogHandler(catalogusecase.NewCatalogUsecase(catalog))
}
