package web

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client's bucket is remembered.
const visitorTTL = 10 * time.Minute

// ipRateLimiter keeps one token bucket per client IP. Buckets refill at
// perMinute tokens per minute and allow a burst of the same size.
type ipRateLimiter struct {
	perMinute int
	visitors  *cache.Cache
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	return &ipRateLimiter{
		perMinute: perMinute,
		visitors:  cache.New(visitorTTL, 2*visitorTTL),
	}
}

func (rl *ipRateLimiter) limiter(ip string) *rate.Limiter {
	if v, ok := rl.visitors.Get(ip); ok {
		rl.visitors.Set(ip, v, cache.DefaultExpiration)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
	// Add fails if another request for the same IP got there first.
	if err := rl.visitors.Add(ip, l, cache.DefaultExpiration); err != nil {
		if v, ok := rl.visitors.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// middleware rejects requests over the per-IP budget with 429.
func (rl *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		if !rl.limiter(ip).Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "Too many requests.",
				Action:  "Wait a minute and try again.",
				Code:    "RATE001",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
