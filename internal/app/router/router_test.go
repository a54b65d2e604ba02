package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internal/app/di"
	"library_backend/internal/app/router"
	"library_backend/internal/feature/library/adapters"
	"library_backend/internal/platform/config"
	platformdb "library_backend/internal/platform/db"
	healthhandler "library_backend/internal/platform/http/handler"
)

const testSecret = "integration-secret"

type testServer struct {
	engine       *gin.Engine
	db           *gorm.DB
	catalogCalls *atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, router.Options{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxBodyBytes:   1 << 20,
	})
}

func newTestServerWith(t *testing.T, opts router.Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := platformdb.Open(platformdb.Config{
		Driver:        platformdb.DriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "library.db"),
		RunMigrations: true,
	}, di.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var calls atomic.Int32
	books := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"totalItems":1,"items":[{"id":"vol-1","volumeInfo":{"title":"Dune","authors":["Frank Herbert"]}}]}`)
	}))
	t.Cleanup(books.Close)

	cfg := &config.Config{
		JWTSecret:          testSecret,
		JWTExpiration:      time.Hour,
		GoogleBooksAPIKey:  "test-key",
		GoogleBooksBaseURL: books.URL,
		CatalogTimeout:     2 * time.Second,
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	engine := router.NewRouter(opts, router.Handlers{
		Auth:    di.NewAuthHandler(db, cfg),
		Library: di.NewLibraryHandler(db),
		Catalog: di.NewCatalogHandler(di.NewCatalog(cfg, nil)),
		Health: healthhandler.NewHealthHandler(map[string]healthhandler.Check{
			"database": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		}),
	})

	return &testServer{engine: engine, db: db, catalogCalls: &calls}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (s *testServer) register(t *testing.T, username, email string) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"username": username, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_PublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, _ = s.do(t, http.MethodHead, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = s.do(t, http.MethodOptions, "/healthz", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "library_http_requests_total")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/books"},
		{http.MethodGet, "/books"},
		{http.MethodGet, "/books/abc"},
		{http.MethodPut, "/books/abc"},
		{http.MethodDelete, "/books/abc"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w, body := s.do(t, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, false, body["success"])
		})
	}

	w, _ := s.do(t, http.MethodGet, "/books", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (s *testServer) countEntries(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&adapters.EntryModel{}).Count(&n).Error)
	return n
}

func TestRouter_UnauthenticatedWritesHaveNoEffect(t *testing.T) {
	s := newTestServer(t)

	save := gin.H{"sourceId": "vol-1", "title": "Dune", "authors": []string{"Frank Herbert"}}

	w, _ := s.do(t, http.MethodPost, "/books", "", save)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int64(0), s.countEntries(t))

	w, _ = s.do(t, http.MethodPost, "/books", "not-a-jwt", save)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int64(0), s.countEntries(t))

	token := s.register(t, "dana", "dana@example.com")
	w, body := s.do(t, http.MethodPost, "/books", token, save)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["book"].(map[string]any)["id"].(string)

	var before adapters.EntryModel
	require.NoError(t, s.db.First(&before, "id = ?", id).Error)

	w, _ = s.do(t, http.MethodPut, "/books/"+id, "", gin.H{"status": "Completed", "personalReview": "overwritten"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/books/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var after adapters.EntryModel
	require.NoError(t, s.db.First(&after, "id = ?", id).Error)
	assert.Equal(t, int64(1), s.countEntries(t))
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.PersonalReview, after.PersonalReview)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

	w, body = s.do(t, http.MethodGet, "/books/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Want to Read", body["book"].(map[string]any)["status"])
}

func TestRouter_SearchIsPublic(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/books/search?query=dune", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), body["totalItems"])
	assert.Equal(t, float64(1), body["currentPage"])
	assert.Equal(t, int32(1), s.catalogCalls.Load())

	w, _ = s.do(t, http.MethodGet, "/books/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RegisterLoginAndLibraryFlow(t *testing.T) {
	s := newTestServer(t)

	token := s.register(t, "alice", "alice@example.com")

	// Duplicate e-mail, case-insensitive.
	w, _ := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice2", "email": "ALICE@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	loginToken := body["token"].(string)

	w, body = s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body["message"])

	w, body = s.do(t, http.MethodGet, "/auth/me", loginToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	save := gin.H{"sourceId": "vol-1", "title": "Dune", "authors": []string{"Frank Herbert"}}
	w, body = s.do(t, http.MethodPost, "/books", token, save)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	book := body["book"].(map[string]any)
	id := book["id"].(string)
	assert.Equal(t, "Want to Read", book["status"])

	w, _ = s.do(t, http.MethodPost, "/books", token, save)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodPut, "/books/"+id, token, gin.H{"status": "Reading", "personalReview": "Great so far"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Reading", body["book"].(map[string]any)["status"])

	w, body = s.do(t, http.MethodGet, "/books?status=Reading", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["totalBooks"])

	// Another user can neither see nor change the entry.
	bob := s.register(t, "bobby", "bob@example.com")
	w, _ = s.do(t, http.MethodGet, "/books/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/books/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, body = s.do(t, http.MethodGet, "/books", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["totalBooks"])

	w, _ = s.do(t, http.MethodDelete, "/books/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/books/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "carol", "carol@example.com")

	huge := make([]byte, 2<<20)
	for i := range huge {
		huge[i] = 'a'
	}
	w, _ := s.do(t, http.MethodPost, "/books", token, gin.H{"sourceId": "vol-2", "title": string(huge)})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	s := newTestServerWith(t, router.Options{
		JWTSecret:         testSecret,
		AuthRatePerMinute: 1,
		AuthRateBurst:     2,
	})

	creds := gin.H{"email": "nobody@example.com", "password": "password123"}
	w, _ := s.do(t, http.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(t, http.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, body["success"])

	// Search is not behind the auth limiter.
	w, _ = s.do(t, http.MethodGet, "/books/search?query=dune", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
