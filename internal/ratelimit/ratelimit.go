// Package ratelimit paces outbound Workshop queries. The platform answers
// aggressive listing with k_EResultLimitExceeded, so callers space their
// calls through a token bucket instead of hammering the SDK.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound platform calls. Construct with New; the zero value
// is not usable.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a Pacer allowing rps calls per second with the given burst
// available immediately.
func New(rps float64, burst int) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until the next call may proceed or ctx is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
