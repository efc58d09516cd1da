package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vaultcode/vaultcode/internal/httputil"
)

// CustomLoggerMiddleware returns a Gin middleware that logs requests with slog.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", requestid.Get(c)),
		)
	}
}

// NewAdminAuthMiddleware gates the admin surface behind the X-Admin-Key
// header. The configured key is hashed with Argon2id at startup so requests
// are verified against the hash, not the raw key. An empty configured key
// disables the admin surface entirely.
func NewAdminAuthMiddleware(apiKey string, logger *slog.Logger) (gin.HandlerFunc, error) {
	if apiKey == "" {
		logger.Warn("admin api key not configured; admin endpoints will reject all requests")
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication is required",
			})
		}, nil
	}

	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, err
	}
	hashedKey, err := hasher.Hash([]byte(apiKey))
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Key")
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication is required",
			})
			return
		}

		ok, err := hasher.Verify([]byte(provided), hashedKey)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication is required",
			})
			return
		}

		c.Next()
	}, nil
}

// maxTrackedClients bounds the per-IP limiter map. When exceeded the map is
// reset, which briefly refills every client's bucket.
const maxTrackedClients = 10000

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.limiters) >= maxTrackedClients {
		l.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// NewRateLimitMiddleware limits requests per client IP using a token bucket.
func NewRateLimitMiddleware(requestsPerSec float64, burst int) gin.HandlerFunc {
	limiter := &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSec),
		burst:    burst,
	}

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
