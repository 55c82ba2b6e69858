package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/showcase-studio/engine/internal/metrics"
	"github.com/showcase-studio/engine/pkg/clock"
	appErr "github.com/showcase-studio/engine/pkg/errors"
)

const (
	sweepInterval = 5 * time.Minute
	visitorTTL    = 10 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	clock    clock.Clock
}

// NewRateLimiter allows burst requests at once per IP, refilled at rps per second.
func NewRateLimiter(rps float64, burst int, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateLimiter{
		visitors: map[string]*limiterEntry{},
		rps:      rate.Limit(rps),
		burst:    burst,
		clock:    clk,
	}
}

// clientIP keys the limiter on the peer address. Forwarding headers are only
// honoured when chi's RealIP middleware has already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *RateLimiter) allow(ip string) bool {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	le, ok := l.visitors[ip]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = le
	}
	le.last = now
	return le.limiter.AllowN(now, 1)
}

func (l *RateLimiter) retryAfter() string {
	if l.rps <= 0 {
		return strconv.Itoa(int(visitorTTL.Seconds()))
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(l.rps))))
}

// Handler rejects requests beyond the caller's budget with 429.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", l.retryAfter())
			writeError(w, http.StatusTooManyRequests, appErr.CodeRateLimited, "Too many requests from this IP")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sweep drops visitors idle for longer than visitorTTL.
func (l *RateLimiter) sweep() int {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for k, v := range l.visitors {
		if now.Sub(v.last) > visitorTTL {
			delete(l.visitors, k)
			removed++
		}
	}
	return removed
}

// Run evicts idle visitors until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	t := l.clock.Ticker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.sweep()
		}
	}
}

func (l *RateLimiter) visitorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
