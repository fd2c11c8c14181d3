package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter applies a token bucket per client IP and evicts idle entries so
// the map cannot grow without bound.
type ipLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	mu      sync.Mutex
	byIP    map[string]*ipEntry
	hits    uint64
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute float64, burst int) *ipLimiter {
	if perMinute <= 0 || burst <= 0 {
		return nil
	}
	return &ipLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byIP:    make(map[string]*ipEntry),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	if l == nil || ip == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byIP[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byIP[ip] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byIP {
			if v.lastSeen.Before(cutoff) {
				delete(l.byIP, k)
			}
		}
	}

	return allowed
}

// RateLimit throttles requests whose path starts with pathPrefix, keyed by
// client IP. Meant for the /api/auth/ endpoints where credential guessing
// would otherwise be free.
func RateLimit(logger *slog.Logger, pathPrefix string, perMinute float64, burst int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(perMinute, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || !strings.HasPrefix(r.URL.Path, pathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.allow(clientIP(r), time.Now()) {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				writeJSONError(w, "too many requests", http.StatusTooManyRequests)
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
