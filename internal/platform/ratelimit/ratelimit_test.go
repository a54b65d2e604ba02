package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newLimiter(perMinute float64, burst int) (*PerClient, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewPerClient(perMinute, burst)
	p.now = clock.now
	return p, clock
}

func TestPerClient_Allow(t *testing.T) {
	p, clock := newLimiter(6, 2) // one token every 10s

	assert.True(t, p.Allow("1.1.1.1"))
	assert.True(t, p.Allow("1.1.1.1"))
	assert.False(t, p.Allow("1.1.1.1"), "burst exhausted")

	// Other clients have their own bucket.
	assert.True(t, p.Allow("2.2.2.2"))

	clock.t = clock.t.Add(10 * time.Second)
	assert.True(t, p.Allow("1.1.1.1"), "token refilled")
	assert.False(t, p.Allow("1.1.1.1"))
}

func TestPerClient_BurstAtLeastOne(t *testing.T) {
	p, _ := newLimiter(60, 0)

	assert.True(t, p.Allow("k"))
	assert.False(t, p.Allow("k"))
}

func TestPerClient_CleanupDropsIdleClients(t *testing.T) {
	p, clock := newLimiter(60, 1)

	p.Allow("idle")
	clock.t = clock.t.Add(idleTTL + 2*time.Minute)
	p.Allow("active")

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.NotContains(t, p.clients, "idle")
	assert.Contains(t, p.clients, "active")
}

func TestPerClient_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p, _ := newLimiter(1, 1)

	r := gin.New()
	r.POST("/auth/login", p.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later"}`, w.Body.String())
}
