package finder

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer picks the pause inserted between consecutive new searches.
type Pacer struct {
	Min  time.Duration
	Max  time.Duration
	rand func() float64
}

// NewPacer builds a pacer for the [min, max] window given in seconds. A
// window below min collapses to min.
func NewPacer(minSeconds, maxSeconds float64) Pacer {
	lo := secondsToDuration(minSeconds)
	hi := secondsToDuration(maxSeconds)
	if hi < lo {
		hi = lo
	}
	return Pacer{Min: lo, Max: hi, rand: rand.Float64}
}

// Next returns a uniformly random delay within the window.
func (p Pacer) Next() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	r := p.rand
	if r == nil {
		r = rand.Float64
	}
	return p.Min + time.Duration(r()*float64(p.Max-p.Min))
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
