package game

import "sync"

// MatchClock is match time in seconds, shared between a session's loops
type MatchClock struct {
	mu  sync.Mutex
	now float32
}

func (c *MatchClock) Now() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by dt and returns the new time
func (c *MatchClock) Advance(dt float32) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += dt
	return c.now
}

// Set jumps the clock, e.g. to adopt the server time
func (c *MatchClock) Set(t float32) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
