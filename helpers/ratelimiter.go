package helpers

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-client token bucket used to protect the management API.
type RateLimiter struct {
	rate         rate.Limit
	burst        int
	cleanupAfter time.Duration
	clients      sync.Map
	stop         chan struct{}
	stopOnce     sync.Once
}

type clientInfo struct {
	limiter  *rate.Limiter
	lastSeen int64
}

// NewRateLimiter allows max requests per client within per, with bursts up to
// max. Idle clients are forgotten after a few minutes.
func NewRateLimiter(max int, per time.Duration) *RateLimiter {
	rl := &RateLimiter{
		rate:         rate.Limit(float64(max) / per.Seconds()),
		burst:        max,
		cleanupAfter: 3 * time.Minute,
		stop:         make(chan struct{}),
	}
	go rl.cleanupLoop(time.Minute)
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow consumes a token for key and returns the tokens left afterwards.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	info := rl.getOrCreate(key)
	atomic.StoreInt64(&info.lastSeen, time.Now().UnixNano())

	ok := info.limiter.Allow()
	remaining := int(info.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return ok, remaining
}

func (rl *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ok, remaining := rl.Allow(clientIP(c))

		c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			c.Response().Header().Set("Retry-After", strconv.Itoa(1))
			return JSONError(c, http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

func (rl *RateLimiter) getOrCreate(key string) *clientInfo {
	if v, ok := rl.clients.Load(key); ok {
		return v.(*clientInfo)
	}

	info := &clientInfo{
		limiter:  rate.NewLimiter(rl.rate, rl.burst),
		lastSeen: time.Now().UnixNano(),
	}
	actual, _ := rl.clients.LoadOrStore(key, info)
	return actual.(*clientInfo)
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-t.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-rl.cleanupAfter).UnixNano()
	rl.clients.Range(func(k, v any) bool {
		info := v.(*clientInfo)
		if atomic.LoadInt64(&info.lastSeen) < cutoff {
			rl.clients.Delete(k)
		}
		return true
	})
}

func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		if host, _, err := net.SplitHostPort(ip); err == nil {
			return host
		}
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request().RemoteAddr); err == nil {
		return host
	}
	return c.Request().RemoteAddr
}
