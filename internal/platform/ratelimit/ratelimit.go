// Package ratelimit throttles requests per client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"library_backend/internal/api"
)

// MsgTooManyRequests is returned with 429.
const MsgTooManyRequests = "Too many requests, please try again later"

// idleTTL is how long an unused client bucket is kept.
const idleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerClient は、クライアントIPごとのトークンバケットでリクエスト頻度を制限します。
type PerClient struct {
	mu          sync.Mutex
	clients     map[string]*client
	limit       rate.Limit
	burst       int
	now         func() time.Time
	lastCleanup time.Time
}

// NewPerClient は1クライアントあたり perMinute 回、最大 burst 回まで連続で許可する制限を作ります。
func NewPerClient(perMinute float64, burst int) *PerClient {
	if burst < 1 {
		burst = 1
	}
	return &PerClient{
		clients: make(map[string]*client),
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow は key のリクエストを1回消費できるかを返します。
func (p *PerClient) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.cleanup(now)

	c, ok := p.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// cleanup は一定時間使われていないバケットを削除します。呼び出し側でロックを保持すること。
func (p *PerClient) cleanup(now time.Time) {
	if now.Sub(p.lastCleanup) < time.Minute {
		return
	}
	p.lastCleanup = now
	for key, c := range p.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(p.clients, key)
		}
	}
}

// Middleware は上限を超えたリクエストを429で拒否します。
func (p *PerClient) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !p.Allow(ip) {
			log.Warn().Str("remote_addr", ip).Str("path", c.FullPath()).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Fail(MsgTooManyRequests))
			return
		}
		c.Next()
	}
}
