package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimiter tracks request timestamps per caller over a sliding
// window. Keys are vendor IDs for authenticated traffic and client IPs
// otherwise, so a vendor cannot dodge the limit by rotating addresses.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	limit   int
	window  time.Duration
	log     *logrus.Logger
}

func NewRateLimiter(limit int, window time.Duration, log *logrus.Logger) *RateLimiter {
	l := &RateLimiter{
		buckets: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		log:     log,
	}
	go l.sweep()
	return l
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	times := trimExpired(l.buckets[key], now.Add(-l.window))
	if len(times) >= l.limit {
		l.buckets[key] = times
		return false
	}
	l.buckets[key] = append(times, now)
	return true
}

// sweep drops idle buckets so one-off callers do not accumulate
// forever.
func (l *RateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)
		for key, times := range l.buckets {
			if times = trimExpired(times, cutoff); len(times) == 0 {
				delete(l.buckets, key)
			} else {
				l.buckets[key] = times
			}
		}
		l.mu.Unlock()
	}
}

// trimExpired relies on timestamps being appended in order: everything
// before the first in-window entry is expired.
func trimExpired(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// rateKey buckets by vendor identity when auth middleware already
// resolved one, and by client IP for anonymous traffic.
func rateKey(c *gin.Context) string {
	if id := GetUserID(c); id != 0 {
		return fmt.Sprintf("vendor:%d", id)
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects callers over the limiter's budget with 429.
func RateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateKey(c)
		if !l.allow(key) {
			l.log.WithFields(logrus.Fields{"key": key, "path": c.FullPath()}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
