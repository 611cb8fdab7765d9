// Package latency provides the simulated-time model for the TLB simulator.
//
// The hierarchy charges lookup and walk latency against a Clock; the
// values come from a TimingConfig and can be overridden via JSON.
package latency

// Clock accumulates simulated time in nanoseconds. It only moves forward
// and is unrelated to the TLB's logical access-recency counter.
type Clock struct {
	now uint64
}

// NewClock creates a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// ChargeLatency advances the simulated time by ns nanoseconds.
func (c *Clock) ChargeLatency(ns uint64) {
	c.now += ns
}

// Now returns the current simulated time in nanoseconds.
func (c *Clock) Now() uint64 {
	return c.now
}

// Reset rewinds the clock to time zero.
func (c *Clock) Reset() {
	c.now = 0
}
