package middleware

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/response"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按用户限制 AI 接口调用频率
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uint64]*userLimiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter perMinute 为每个用户每分钟允许的请求数
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[uint64]*userLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (r *RateLimiter) Allow(userID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	l, ok := r.limiters[userID]
	if !ok {
		r.cleanup(now)
		l = &userLimiter{limiter: rate.NewLimiter(r.limit, r.burst), lastSeen: now}
		r.limiters[userID] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// cleanup 在新用户加入时顺带清理长时间未访问的限流器
func (r *RateLimiter) cleanup(now time.Time) {
	for id, l := range r.limiters {
		if now.Sub(l.lastSeen) > limiterIdleTTL {
			delete(r.limiters, id)
		}
	}
}

// Middleware 需放在 AuthMiddleware 之后
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint64(consts.UserIDKey)
		if !r.Allow(userID) {
			response.Fail(c, response.TooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
