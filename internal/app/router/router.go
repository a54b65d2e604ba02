// Package router assembles the gin engine and its routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "library_backend/internal/feature/auth/transport/handler"
	cataloghandler "library_backend/internal/feature/catalog/transport/handler"
	libraryhandler "library_backend/internal/feature/library/transport/handler"
	healthhandler "library_backend/internal/platform/http/handler"
	jwtmw "library_backend/internal/platform/jwt"
	"library_backend/internal/platform/logging"
	"library_backend/internal/platform/metrics"
	"library_backend/internal/platform/ratelimit"
)

// Options carries the settings the router needs from configuration.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	MaxBodyBytes   int64

	// AuthRatePerMinute limits register and login per client IP. 0 disables it.
	AuthRatePerMinute float64
	AuthRateBurst     int
}

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Library *libraryhandler.LibraryHandler
	Catalog *cataloghandler.CatalogHandler
	Health  *healthhandler.HealthHandler
}

// NewRouter builds the engine with middleware and every route.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.AccessLog(), metrics.Middleware())

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
			ExposeHeaders:    []string{logging.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.MaxBodyBytes > 0 {
		r.Use(limitBody(opts.MaxBodyBytes))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)
	r.GET("/metrics", metrics.Handler())

	authGroup := r.Group("/auth")
	if opts.AuthRatePerMinute > 0 {
		authGroup.Use(ratelimit.NewPerClient(opts.AuthRatePerMinute, opts.AuthRateBurst).Middleware())
	}
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	// 書籍検索は公開。/books/:id より先に登録する
	r.GET("/books/search", h.Catalog.Search)

	// 認証必須のルート
	protected := r.Group("/")
	protected.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		protected.GET("/auth/me", h.Auth.Me)

		books := protected.Group("/books")
		books.POST("", h.Library.Save)
		books.GET("", h.Library.List)
		books.GET("/:id", h.Library.Get)
		books.PUT("/:id", h.Library.Update)
		books.DELETE("/:id", h.Library.Delete)
	}

	return r
}

// limitBody caps request bodies; oversized JSON then fails to bind with 400.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
