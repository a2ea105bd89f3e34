package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/turtacn/interactome/pkg/errors"
)

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.
	RequestsPerSecond float64
	// Burst is the number of requests a client may issue at once.
	Burst int
	// KeyFunc extracts the client key. Defaults to the remote host.
	KeyFunc func(r *http.Request) string
	// IdleTTL drops limiters of clients that have been quiet this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns a limit of 20 rps with bursts of 40.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		KeyFunc:           RemoteHostKey,
		IdleTTL:           10 * time.Minute,
	}
}

// RemoteHostKey keys clients by the host part of RemoteAddr. Behind
// chimw.RealIP this is the forwarded client address.
func RemoteHostKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// ClientLimiter holds one token bucket per client key.
type ClientLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter creates a ClientLimiter from cfg.
func NewClientLimiter(cfg RateLimitConfig) *ClientLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	}
	return &ClientLimiter{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   burst,
		idleTTL: cfg.IdleTTL,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow consumes one token for key. When the bucket is empty it returns
// false and the wait until the next token.
func (l *ClientLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	l.mu.Unlock()

	r := c.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Clients returns the number of tracked client keys.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep must be called with mu held.
func (l *ClientLimiter) sweep(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for k, c := range l.clients {
		if now.Sub(c.seen) >= l.idleTTL {
			delete(l.clients, k)
		}
	}
}

// RateLimit returns middleware that answers 429 once a client exhausts its
// bucket. A non-positive rate disables limiting.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimitWith(NewClientLimiter(cfg), cfg.KeyFunc)
}

// RateLimitWith is RateLimit over an existing limiter.
func RateLimitWith(limiter *ClientLimiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = RemoteHostKey
	}
	limit := strconv.Itoa(limiter.burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", limit)
			ok, wait := limiter.Allow(keyFunc(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(errors.HTTPStatusForCode(errors.CodeRateLimited))
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":       string(errors.CodeRateLimited),
				"message":    errors.DefaultMessageForCode(errors.CodeRateLimited),
				"request_id": chimw.GetReqID(r.Context()),
			})
		})
	}
}

//Personal.AI order the ending
