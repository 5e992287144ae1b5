// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limit)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func ping(r *gin.Engine, clientIP string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = clientIP + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGeneralRateLimitRejectsBurstOverflow(t *testing.T) {
	r := rateLimitedRouter(GeneralRateLimit(2))

	assert.Equal(t, http.StatusOK, ping(r, "10.9.0.1").Code)
	assert.Equal(t, http.StatusOK, ping(r, "10.9.0.1").Code)

	w := ping(r, "10.9.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimitIsPerClientIP(t *testing.T) {
	r := rateLimitedRouter(GeneralRateLimit(1))

	assert.Equal(t, http.StatusOK, ping(r, "10.9.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.9.0.2").Code)

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, ping(r, "10.9.0.3").Code)
}

func TestRateLimitDefaultsWhenUnconfigured(t *testing.T) {
	r := rateLimitedRouter(AuthRateLimit(0))

	// The zero value falls back to a sane default instead of blocking
	// everything.
	assert.Equal(t, http.StatusOK, ping(r, "10.9.0.4").Code)
}
