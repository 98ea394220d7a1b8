package assessment

// TickOutcome is what a single tick did to a Countdown.
type TickOutcome int

const (
	// TickStale means the tick belonged to another timer or none is running.
	TickStale TickOutcome = iota
	// TickElapsed means one second passed and time remains.
	TickElapsed
	// TickExpired means the last second elapsed.
	TickExpired
)

// Countdown is the per-question clock. It is a value; methods return the updated copy.
type Countdown struct {
	Token     uint64
	Remaining int
	Running   bool
}

// Start replaces any running countdown with a fresh one bound to token.
func (c Countdown) Start(token uint64, seconds int) Countdown {
	return Countdown{Token: token, Remaining: seconds, Running: seconds > 0}
}

// Cancel stops the countdown. Remaining time is kept for display.
func (c Countdown) Cancel() Countdown {
	c.Running = false
	return c
}

// Tick applies one elapsed second from the timer identified by token.
func (c Countdown) Tick(token uint64) (Countdown, TickOutcome) {
	if !c.Running || token != c.Token {
		return c, TickStale
	}
	c.Remaining--
	if c.Remaining <= 0 {
		c.Remaining = 0
		c.Running = false
		return c, TickExpired
	}
	return c, TickElapsed
}
