package mem

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per client key.
type LimiterStore interface {
	// Allow reports whether the client may proceed now and consumes a token.
	Allow(clientKey string) bool
}

// ClientLimiters keeps limiters in memory and forgets clients that stay
// idle longer than the idle window.
type ClientLimiters struct {
	mu    sync.Mutex
	cache *gocache.Cache
	limit rate.Limit
	burst int
	idle  time.Duration
}

func NewClientLimiters(perMinute int, burst int, idle time.Duration) *ClientLimiters {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiters{
		cache: gocache.New(idle, 2*idle),
		limit: limit,
		burst: burst,
		idle:  idle,
	}
}

func (l *ClientLimiters) Allow(clientKey string) bool {
	return l.limiter(clientKey).Allow()
}

func (l *ClientLimiters) limiter(clientKey string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.cache.Get(clientKey); ok {
		limiter := v.(*rate.Limiter)
		// touch so active clients keep their bucket
		l.cache.Set(clientKey, limiter, l.idle)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.cache.Set(clientKey, limiter, l.idle)
	return limiter
}
