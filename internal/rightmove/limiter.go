package rightmove

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces requests per hostname (www.rightmove.co.uk, los.rightmove.co.uk).
type HostLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	r     rate.Limit
	burst int
}

// NewHostLimiter returns a limiter allowing reqPerSec requests per host.
// A non-positive rate disables pacing.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	r := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		hosts: make(map[string]*rate.Limiter),
		r:     r,
		burst: burst,
	}
}

func (hl *HostLimiter) forHost(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.hosts[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.burst)
	hl.hosts[host] = lim
	return lim
}

// Wait blocks until a request to rawURL is allowed or ctx is done.
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := "_"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return hl.forHost(host).Wait(ctx)
}
