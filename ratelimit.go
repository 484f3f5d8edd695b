package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per caller. Authenticated requests are
// keyed by trainer, anonymous ones by client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}
}

// allow reports whether the caller identified by key may proceed.
func (rl *rateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	rl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// prune drops limiters idle for longer than maxIdle.
func (rl *rateLimiter) prune(now time.Time, maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > maxIdle {
			delete(rl.limiters, key)
		}
	}
}

// startPruning prunes idle limiters every interval until stop is closed.
func (rl *rateLimiter) startPruning(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				rl.prune(now, interval)
			case <-stop:
				return
			}
		}
	}()
}

// middleware rejects callers over their rate with 429. A nil limiter or a
// non-positive rate disables limiting.
func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.rate <= 0 {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if trainerID, ok := c.Get("trainer_id"); ok {
			key = fmt.Sprintf("trainer:%v", trainerID)
		}
		if !rl.allow(key, time.Now()) {
			rateLimited.Inc()
			c.Header("Retry-After", "1")
			apiError(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
