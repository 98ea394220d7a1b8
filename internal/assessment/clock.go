package assessment

import (
	"sync"
	"time"
)

// Clock drives the countdown. Start replaces any running timer; each tick reports the
// token it was started with so stale ticks can be recognized.
type Clock interface {
	Start(token uint64, tick func(token uint64))
	Stop()
}

// SecondClock ticks once per interval on a background goroutine.
type SecondClock struct {
	interval time.Duration
	mu       sync.Mutex
	stop     chan struct{}
}

// NewSecondClock creates a clock that ticks every second.
func NewSecondClock() *SecondClock {
	return &SecondClock{interval: time.Second}
}

// Start cancels any running timer and starts a new one bound to token.
func (c *SecondClock) Start(token uint64, tick func(token uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	stop := make(chan struct{})
	c.stop = stop
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick(token)
			case <-stop:
				return
			}
		}
	}()
}

// Stop cancels the running timer, if any.
func (c *SecondClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *SecondClock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
