package engine

// Countdown is the single monotonic clock driving round lifetime. It holds
// whole seconds remaining and never goes below zero; once expired it stays
// expired. The engine does not schedule ticks itself, an external timer calls
// Tick once per elapsed second.
type Countdown struct {
	budget    int
	remaining int
}

// NewCountdown starts a countdown at the given budget in seconds.
func NewCountdown(budget int) *Countdown {
	if budget < 0 {
		budget = 0
	}
	return &Countdown{budget: budget, remaining: budget}
}

// Tick decrements the clock by one second, flooring at zero, and returns the
// seconds remaining.
func (c *Countdown) Tick() int {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining
}

// Remaining reports the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether the clock has run out.
func (c *Countdown) Expired() bool {
	return c.remaining <= 0
}

// Elapsed is the number of seconds consumed so far.
func (c *Countdown) Elapsed() int {
	return c.budget - c.remaining
}
