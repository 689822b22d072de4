package middleware

import (
	"net/http"
	"sync"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ClientRateLimiter struct {
	clients map[string]*rate.Limiter
	mu      *sync.Mutex
	r       rate.Limit // requests per second
	b       int        // burst
}

func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients: make(map[string]*rate.Limiter),
		mu:      &sync.Mutex{},
		r:       r,
		b:       b,
	}
}

func (l *ClientRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.clients[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.clients[key] = limiter
	}

	return limiter
}

func tooManyRequests(c *gin.Context) {
	response.Error(c, http.StatusTooManyRequests, apperror.CodeTooManyRequests, "Too many requests", nil)
	c.Abort()
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewClientRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimitByClient keys on the actor header and falls back to the client
// IP for anonymous (SYSTEM) callers. r = requests per second, b = burst.
func RateLimitByClient(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewClientRateLimiter(r, b)
	return func(c *gin.Context) {
		key := c.GetString("actor")
		if key == "" || key == "SYSTEM" {
			key = "ip:" + c.ClientIP()
		}
		if !limiter.GetLimiter(key).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}
