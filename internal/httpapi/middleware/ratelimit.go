package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 3 * time.Minute
	limiterPruneEvery = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool hands out one limiter per client IP and evicts idle entries
// so the map stays bounded on unauthenticated endpoints.
type limiterPool struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastPrune time.Time
}

func newLimiterPool(limit rate.Limit, burst int) *limiterPool {
	return &limiterPool{
		limit:     limit,
		burst:     burst,
		clients:   make(map[string]*clientLimiter),
		lastPrune: time.Now(),
	}
}

func (p *limiterPool) get(ip string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastPrune) >= limiterPruneEvery {
		for addr, cl := range p.clients {
			if now.Sub(cl.lastSeen) >= limiterIdleTTL {
				delete(p.clients, addr)
			}
		}
		p.lastPrune = now
	}

	cl, ok := p.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimit throttles requests per client IP. Used on the signup and token
// endpoints, which are unauthenticated and trigger outbound mail.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	pool := newLimiterPool(limit, burst)

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP(), time.Now()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
