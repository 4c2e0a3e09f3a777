package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
)

// KeyFunc picks the bucket a request is counted against
type KeyFunc func(c *gin.Context) string

// ClientIPKey counts requests per client address (gin resolves X-Forwarded-For)
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// UserKey counts requests per authenticated user. Requests without a user fall back to
// the client address.
func UserKey(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return ClientIPKey(c)
}

// RateLimiter is a fixed-window request counter per key
type RateLimiter struct {
	name   string
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	done chan struct{}
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per period for each key. name only labels log
// lines ("general", "scoring"). Call Stop to end the background sweep.
func NewRateLimiter(limit int, period time.Duration, name string) *RateLimiter {
	rl := &RateLimiter{
		name:    name,
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.sweepLoop()

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("limit", limit),
		logger.Duration("period", period),
	)
	return rl
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	select {
	case <-rl.done:
	default:
		close(rl.done)
	}
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
		}

		if removed, remaining := rl.sweep(); removed > 0 {
			logger.Default().Debug("rate limiter sweep",
				logger.String("name", rl.name),
				logger.Int("removed", removed),
				logger.Int("remaining", remaining),
			)
		}
	}
}

// sweep forgets keys whose window ended at least one full period ago
func (rl *RateLimiter) sweep() (removed, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.Sub(w.start) > rl.period*2 {
			delete(rl.windows, key)
			removed++
		}
	}
	return removed, len(rl.windows)
}

// take counts one request for key. reset is the time left in key's current window.
func (rl *RateLimiter) take(key string) (allowed bool, count int, reset time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}
	w.count++

	return w.count <= rl.limit, w.count, rl.period - now.Sub(w.start)
}

// Middleware rejects requests over the limit with a 429 problem and a Retry-After header
func (rl *RateLimiter) Middleware(key KeyFunc) gin.HandlerFunc {
	limit := strconv.Itoa(rl.limit)

	return func(c *gin.Context) {
		k := key(c)
		allowed, count, reset := rl.take(k)
		c.Header("X-RateLimit-Limit", limit)

		if !allowed {
			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", rl.name),
				logger.String("key", k),
				logger.Int("request_count", count),
				logger.Int("limit", rl.limit),
			)
			c.Header("X-RateLimit-Remaining", "0")
			apierror.AbortWithProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), int(math.Ceil(reset.Seconds()))))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.limit-count))
		c.Next()
	}
}

// RateLimit limits every request per client address
func RateLimit(limit int, period time.Duration, name string) gin.HandlerFunc {
	return NewRateLimiter(limit, period, name).Middleware(ClientIPKey)
}

// UserRateLimit limits requests per authenticated user. It must run after Auth.
func UserRateLimit(limit int, period time.Duration, name string) gin.HandlerFunc {
	return NewRateLimiter(limit, period, name).Middleware(UserKey)
}
