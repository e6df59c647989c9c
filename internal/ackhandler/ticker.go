package ackhandler

import "time"

// The monotonicTicker reads the monotonic clock reading of the runtime.
// Readings are relative to the creation of the ticker, the pipeline never
// sees the wall clock.
type monotonicTicker struct {
	epoch time.Time
}

var _ Ticker = &monotonicTicker{}

// NewTicker creates a Ticker backed by the runtime's monotonic clock.
func NewTicker() Ticker {
	return &monotonicTicker{epoch: time.Now()}
}

func (t *monotonicTicker) NowNanos() int64 {
	return time.Since(t.epoch).Nanoseconds()
}
