package chi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kailas-cloud/devcamper/internal/metrics"
)

// limiterTTL is how long an idle client keeps its bucket.
const limiterTTL = 15 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

// NewRateLimiter creates a limiter admitting requestsPerMinute with the given burst.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether the client at ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastGC) > limiterTTL {
		for k, cl := range rl.limiters {
			if now.Sub(cl.lastSeen) > limiterTTL {
				delete(rl.limiters, k)
			}
		}
		rl.lastGC = now
	}

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimitMiddleware limits requests per client IP.
// requestsPerMinute <= 0 disables limiting (pass-through).
func RateLimitMiddleware(requestsPerMinute, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if requestsPerMinute <= 0 {
			return next
		}
		rl := NewRateLimiter(requestsPerMinute, burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientIP(r)) {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
