package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/auth"
	"github.com/AlexZinkM/lumen-wallet/internal/model"

	"golang.org/x/time/rate"
)

// RateLimiter allows each principal a number of requests per minute.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewRateLimiter returns a limiter of perMinute requests per principal.
// perMinute <= 0 returns nil, which lets everything through.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *RateLimiter) limiter(id int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[id]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[id] = lim
	}
	return lim
}

// Allow reports whether principal id may make another request now.
func (l *RateLimiter) Allow(id int64) bool {
	if l == nil {
		return true
	}
	return l.limiter(id).Allow()
}

// Middleware must run after authentication; it keys on the principal.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFrom(r.Context())
		if ok && !l.Allow(p.ID) {
			retryAfter := time.Duration(float64(time.Second) / float64(l.every))
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			retryable := true
			json.NewEncoder(w).Encode(model.ErrorResponse{
				Error:     "Too many requests",
				Code:      "RateLimited",
				Retryable: &retryable,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
