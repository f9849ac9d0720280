package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/repo"
	"go.uber.org/zap"
)

// Limiter admits at most a fixed number of hits per key and window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	hits    int
	started time.Time
}

// MemoryLimiter is a fixed-window limiter local to one process.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(rate int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), rate: rate, window: window, now: time.Now}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.started) >= rl.window {
		rl.buckets[key] = &bucket{hits: 1, started: now}
		rl.sweep(now)
		return true, nil
	}
	if b.hits < rl.rate {
		b.hits++
		return true, nil
	}
	return false, nil
}

// sweep drops expired windows once the map grows; called with mu held.
func (rl *MemoryLimiter) sweep(now time.Time) {
	if len(rl.buckets) < 4096 {
		return
	}
	for k, b := range rl.buckets {
		if now.Sub(b.started) >= rl.window {
			delete(rl.buckets, k)
		}
	}
}

// RedisLimiter shares the window across API replicas.
type RedisLimiter struct {
	R      *repo.Redis
	Rate   int
	Window time.Duration
	Prefix string
}

func NewRedisLimiter(r *repo.Redis, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{R: r, Rate: rate, Window: window, Prefix: "rl:"}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := rl.R.Hit(ctx, rl.Prefix+key, rl.Window)
	if err != nil {
		return true, err
	}
	return n <= int64(rl.Rate), nil
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(ip); err == nil && host != "" {
		return host
	}
	return ip
}

// RateLimit keys on route and client address. A limiter error lets the
// request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + "|" + ClientIP(c)
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			applog.WithDD(c.Request.Context(), applog.L()).Warn("rate limiter unavailable", zap.Error(err))
		}
		if !ok {
			abort(c, http.StatusTooManyRequests, CodeTooMany, "too many requests", nil)
			return
		}
		c.Next()
	}
}
