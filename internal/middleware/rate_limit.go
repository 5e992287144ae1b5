// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/flavorsnap/ip-backend/internal/utils"
)

// ipRateLimiter keeps one token bucket per client IP. Buckets for clients
// idle longer than a few minutes are evicted.
type ipRateLimiter struct {
	clients map[string]*rateLimitedClient
	mtx     sync.Mutex
	limit   rate.Limit
	burst   int
}

type rateLimitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	rl := &ipRateLimiter{
		clients: make(map[string]*rateLimitedClient),
		limit:   limit,
		burst:   burst,
	}

	go rl.evictIdle()

	return rl
}

func (rl *ipRateLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)
		rl.mtx.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > 3*time.Minute {
				delete(rl.clients, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *ipRateLimiter) get(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[ip] = &rateLimitedClient{limiter, time.Now()}
		return limiter
	}

	client.lastSeen = time.Now()
	return client.limiter
}

func (rl *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Registry request rate exceeded, try again later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GeneralRateLimit throttles all registry traffic per client IP.
func GeneralRateLimit(perSecond int) gin.HandlerFunc {
	if perSecond < 1 {
		perSecond = 10
	}
	return newIPRateLimiter(rate.Limit(perSecond), perSecond).middleware()
}

// AuthRateLimit keeps credential guessing slow.
func AuthRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute < 1 {
		perMinute = 5
	}
	return newIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute).middleware()
}

// UploadRateLimit bounds metadata upload churn per client IP.
func UploadRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute < 1 {
		perMinute = 10
	}
	return newIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute).middleware()
}
