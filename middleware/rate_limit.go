package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/utils"
)

const limiterIdle = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

type ipLimiters struct {
	mu      sync.Mutex
	entries map[string]*rateLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newIPLimiters(perMinute int) *ipLimiters {
	return &ipLimiters{
		entries: map[string]*rateLimiter{},
		limit:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   max(perMinute/2, 1),
		now:     time.Now,
	}
}

// RateLimit applies a per-IP token bucket refilled at perMinute requests a minute.
func RateLimit(perMinute int) gin.HandlerFunc {
	l := newIPLimiters(perMinute)
	return func(ctx *gin.Context) {
		if !l.allow(ctx.ClientIP()) {
			utils.AbortKey(ctx, http.StatusTooManyRequests, 42901, models.MsgRateLimited, nil)
			return
		}
		ctx.Next()
	}
}

func (l *ipLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.entries {
		if now.After(e.expires) {
			delete(l.entries, k)
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &rateLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.expires = now.Add(limiterIdle)
	return e.limiter.AllowN(now, 1)
}
