package chi

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Rate limit response headers.
const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRetryAfter    = "Retry-After"
)

// RateLimiter is a per-client token bucket refilled over one minute.
// Client buckets live in a bounded LRU; an evicted client starts full.
type RateLimiter struct {
	perMinute int
	mu        sync.Mutex
	clients   *lru.Cache[string, *rate.Limiter]
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per client,
// tracking at most maxClients clients.
func NewRateLimiter(perMinute, maxClients int) (*RateLimiter, error) {
	if perMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", perMinute)
	}
	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, fmt.Errorf("create client cache: %w", err)
	}
	return &RateLimiter{perMinute: perMinute, clients: cache, now: time.Now}, nil
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.clients.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
	l.clients.Add(key, lim)
	return lim
}

// Allow takes one token for key. When denied it returns the wait until the
// next token.
func (l *RateLimiter) Allow(key string) (ok bool, remaining int, retryAfter time.Duration) {
	lim := l.limiter(key)
	now := l.now()
	res := lim.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, delay
	}
	return true, max(0, int(math.Floor(lim.TokensAt(now)))), 0
}

// Middleware rejects clients over budget with 429 and Retry-After.
// Clients are keyed by principal, or by IP for the development principal.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, wait := l.Allow(clientKey(r))
			w.Header().Set(headerRateLimit, strconv.Itoa(l.perMinute))
			w.Header().Set(headerRateRemaining, strconv.Itoa(remaining))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				w.Header().Set(headerRetryAfter, strconv.Itoa(secs))
				writeErrorBody(w, r, http.StatusTooManyRequests, errorResponse{
					Code:    codeRateLimited,
					Message: fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", secs),
					Details: map[string]any{"limit": l.perMinute, "window": "1 minute", "retryAfter": secs},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if p, ok := PrincipalFrom(r.Context()); ok && !p.Dev {
		return "p:" + p.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
