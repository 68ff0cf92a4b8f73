package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/garrettladley/ham/internal/xerrors"
	"github.com/garrettladley/ham/internal/xhttp"
)

type ipLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[ip]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok = l.limiters[ip]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// RateLimit applies a per-IP token bucket. A non-positive perSecond disables it.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    max(burst, 1),
	}
	retryAfter := time.Duration(float64(time.Second) / perSecond)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.get(xhttp.GetRequestIP(r)).Allow() {
				xerrors.WriteError(r.Context(), w, xerrors.TooManyRequests(
					xerrors.WithRetryAfter(max(retryAfter, time.Second)),
				))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
