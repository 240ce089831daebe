package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of keys to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

// getLimiter returns the rate limiter for a given key, creating one if it
// doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

var ipLimiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
	limit:    rate.Every(time.Minute / 200),
	burst:    200,
}

// One message per second sustained, short bursts allowed. Matches the
// Telegram per-chat send limit so the bot never trips it.
var chatLimiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
	limit:    rate.Every(time.Second),
	burst:    5,
}

// RateLimitMiddleware limits webhook requests per client IP.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := ipLimiterStore.getLimiter(ip)
		if !limiter.Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

// AllowChat reports whether a chat is under its message budget. Updates
// over the budget are dropped upstream of the dialogue flow.
func AllowChat(chatID int64) bool {
	return chatLimiterStore.getLimiter(strconv.FormatInt(chatID, 10)).Allow()
}
