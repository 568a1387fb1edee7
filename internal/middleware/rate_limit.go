package middleware

import (
	"sync"
	"time"

	autherrors "platoon-pulse/internal/auth/errors"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Buckets untouched for this long are dropped on the next sweep.
const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketSet keeps one token bucket per key (client IP or user id).
type bucketSet struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newBucketSet(limit rate.Limit, burst int) *bucketSet {
	return &bucketSet{
		limit:     limit,
		burst:     burst,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (s *bucketSet) allow(key string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > bucketIdleTTL {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// rateLimit limits requests per key. An empty key is not limited.
func rateLimit(limit rate.Limit, burst int, keyOf func(*gin.Context) string) gin.HandlerFunc {
	set := newBucketSet(limit, burst)
	return func(c *gin.Context) {
		if key := keyOf(c); key != "" && !set.allow(key) {
			abortWithError(c, autherrors.ErrTooManyRequests, nil)
			return
		}
		c.Next()
	}
}

func RateLimitByIP(limit rate.Limit, burst int) gin.HandlerFunc {
	return rateLimit(limit, burst, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByUser skips anonymous requests; mount it after AuthMiddleware.
func RateLimitByUser(limit rate.Limit, burst int) gin.HandlerFunc {
	return rateLimit(limit, burst, func(c *gin.Context) string { return c.GetString(identity.KeyUserID) })
}
