package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateLimitIdleTTL = 3 * time.Minute

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rateLimitClient
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether ip may make another request now.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= rateLimitIdleTTL {
		for key, client := range l.clients {
			if now.Sub(client.lastSeen) >= rateLimitIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastPrune = now
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &rateLimitClient{
			limiter: rate.NewLimiter(l.limit, l.burst),
		}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

func (h *handlerImpl) HandleRateLimitMiddleware(c *gin.Context) {
	if h.options.RateLimiter == nil {
		c.Next()
		return
	}

	ip := c.ClientIP()
	if !h.options.RateLimiter.Allow(ip) {
		h.logger.Warn().
			Str("client_ip", ip).
			Str("path", c.Request.URL.Path).
			Msg("rate limit exceeded")
		h.abort(c, newStatusTextError(http.StatusTooManyRequests))
		return
	}
	c.Next()
}
