package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newTestLimiterLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	t.Parallel()
	l := NewRateLimiter(3, time.Minute, newTestLimiterLogger())
	for i := 0; i < 3; i++ {
		if !l.allow("vendor:1") {
			t.Fatalf("request %d rejected under limit", i+1)
		}
	}
	if l.allow("vendor:1") {
		t.Error("request over limit allowed")
	}
	// Another caller's bucket is independent.
	if !l.allow("vendor:2") {
		t.Error("separate key rejected")
	}
}

func TestRateKeyPrefersVendorIdentity(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/leads", nil)
	c.Set("user_id", uint(7))
	if key := rateKey(c); key != "vendor:7" {
		t.Errorf("authenticated key = %q, want vendor:7", key)
	}

	anon, _ := gin.CreateTestContext(httptest.NewRecorder())
	anon.Request = httptest.NewRequest(http.MethodGet, "/leads", nil)
	anon.Request.RemoteAddr = "203.0.113.9:4321"
	if key := rateKey(anon); key != "ip:203.0.113.9" {
		t.Errorf("anonymous key = %q, want ip:203.0.113.9", key)
	}
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Minute, newTestLimiterLogger())))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "203.0.113.9:4321"

	first := httptest.NewRecorder()
	r.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}
	second := httptest.NewRecorder()
	r.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.Code)
	}
}
