package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters for an endpoint.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed per Window.
	RequestsPerWindow int
	// Window is the time window for rate limiting.
	Window time.Duration
	// Burst allows temporary bursts above the sustained rate.
	Burst int
}

// Rate limit profiles. The token endpoint takes StrictLimit since every
// grant type on it is an authentication attempt.
var (
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	ModerateLimit = RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		Burst:             20,
	}

	LenientLimit = RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		Burst:             100,
	}
)

// limiterSet keeps one token bucket per key and drops buckets that have
// been idle long enough to be full again.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	cfg      RateLimitConfig
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	ls := &limiterSet{
		limiters: make(map[string]*keyedLimiter),
		cfg:      cfg,
	}
	go ls.cleanup()
	return ls
}

func (ls *limiterSet) get(key string) *rate.Limiter {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	kl, ok := ls.limiters[key]
	if !ok {
		limit := rate.Limit(float64(ls.cfg.RequestsPerWindow) / ls.cfg.Window.Seconds())
		kl = &keyedLimiter{limiter: rate.NewLimiter(limit, ls.cfg.Burst)}
		ls.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	return kl.limiter
}

func (ls *limiterSet) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ls.mu.Lock()
		for key, kl := range ls.limiters {
			if time.Since(kl.lastSeen) > 3*ls.cfg.Window {
				delete(ls.limiters, key)
			}
		}
		ls.mu.Unlock()
	}
}

// RateLimitByIP limits requests per client IP using the given profile.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	set := newLimiterSet(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.get(clientIP(r)).Allow() {
				NoCache(w)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
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
