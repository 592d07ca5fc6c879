package http

import "time"

// rateLimiter caps inbound frames per window for one connection. It is
// only ever touched from that connection's read loop; the window rollover
// happens inside allow so no second goroutine shares the counter.
type rateLimiter struct {
	limit   int
	counter int
	reset   *time.Ticker
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit: limit,
		reset: time.NewTicker(window),
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	select {
	case <-r.reset.C:
		r.counter = 0
	default:
	}
	r.counter++
	return r.counter <= r.limit
}

func (r *rateLimiter) stop() {
	if r != nil && r.reset != nil {
		r.reset.Stop()
	}
}
