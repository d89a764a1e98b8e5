package marketing

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// RateLimiter combines proactive token-bucket throttling with a reactive
// pause after the API answers 429.
type RateLimiter struct {
	mu     sync.Mutex
	until  time.Time     // no request before this instant
	bucket *rate.Limiter // nil when throttling is disabled
}

// NewRateLimiter creates a limiter allowing perSecond requests.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	r := &RateLimiter{}
	if perSecond > 0 {
		r.bucket = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return r
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.until
	r.mu.Unlock()

	if d := time.Until(until); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if r.bucket == nil {
		return nil
	}
	return r.bucket.Wait(ctx)
}

// Observe records a 429 Retry-After so the next Wait defers accordingly.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}
	seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter))
	if err != nil || seconds <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(time.Duration(seconds) * time.Second); until.After(r.until) {
		r.until = until
	}
}

// DeferredUntil returns the instant before which no request will be sent.
func (r *RateLimiter) DeferredUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.until
}
