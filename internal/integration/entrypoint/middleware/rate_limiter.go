package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles a route per administrator, or per client IP for
// anonymous callers. Each key may burst up to limit requests and regains the
// whole allowance over one window.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A non-positive limit disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key, ok := GetSubjectFromContext(c)
		if !ok {
			key = c.ClientIP()
		}

		allowed, retryAfter := rl.allow(c.FullPath() + "|" + key)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(max(1, int(math.Round(retryAfter.Seconds())))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many notification runs, try again later",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}
		c.Next()
	}
}

// allow takes a token for key. When none is left it reports how long until
// the next one.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.window > 0 && now.Sub(rl.lastSweep) > rl.window {
		rl.sweep(now)
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every(), rl.limit)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}
	missing := 1 - b.limiter.TokensAt(now)
	return false, time.Duration(missing / float64(b.limiter.Limit()) * float64(time.Second))
}

func (rl *RateLimiter) every() rate.Limit {
	if rl.window <= 0 {
		return rate.Inf
	}
	return rate.Every(rl.window / time.Duration(rl.limit))
}

// sweep drops buckets idle for a whole window; they would be full again anyway.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.window {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}
