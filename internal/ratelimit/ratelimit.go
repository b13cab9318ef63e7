package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ch1kulya/logger"
	"golang.org/x/time/rate"
)

const maxVisitors = 9999

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands every client IP its own token bucket.
type Limiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(ip string) bool {
	return l.visitor(ip).AllowN(l.now(), 1)
}

func (l *Limiter) visitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, exists := l.visitors[ip]
	if exists {
		v.lastSeen = now
		return v.limiter
	}

	if len(l.visitors) >= maxVisitors {
		l.evict(now, time.Minute)
		if len(l.visitors) >= maxVisitors {
			return rate.NewLimiter(rate.Limit(1), 1)
		}
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.visitors[ip] = &visitor{limiter, now}
	return limiter
}

func (l *Limiter) evict(now time.Time, idle time.Duration) int {
	removed := 0
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Run forgets clients idle for five minutes until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			l.evict(l.now(), 5*time.Minute)
			l.mu.Unlock()
		}
	}
}

// ClientIP strips the port from RemoteAddr; chi's RealIP runs first.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Middleware rejects clients over their budget with 429. Requests for
// which bypass returns true skip the limiter.
func Middleware(l *Limiter, bypass func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass != nil && bypass(r) {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !l.Allow(ip) {
				logger.Warn("Rate limit exceeded for IP: %s", ip)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error": "Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
