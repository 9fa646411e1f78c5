package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer keeps at least delay between the end of one request and the start
// of the next. the first Wait never blocks.
type Pacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until delay has passed since the last call to Done. it fails
// early with ctx's error, or when ctx's deadline falls before that point.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

// Done marks the end of a request.
func (p *Pacer) Done() {
	if p.delay <= 0 {
		return
	}
	// a fresh limiter with its single token taken has the next one ready
	// exactly delay from now.
	p.limiter = rate.NewLimiter(rate.Every(p.delay), 1)
	p.limiter.Allow()
}
