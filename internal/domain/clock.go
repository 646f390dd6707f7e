package domain

// Clock is the process-wide monotonic counter of simulated time. It is
// advanced externally in discrete steps; the engine only reads it to stamp
// orders and trades and places no semantic weight on the unit.
type Clock struct {
	now int64
}

// NewClock creates a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current simulated time.
func (c *Clock) Now() int64 {
	return c.now
}

// Advance moves the clock forward by dt steps. Negative deltas are ignored
// so the clock stays monotonically non-decreasing.
func (c *Clock) Advance(dt int64) {
	if dt < 0 {
		return
	}
	c.now += dt
}
