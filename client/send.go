package client

import (
	"time"

	"spaceship-arena/protocol"
)

// sendLoop reports the local ship every UpdateInterval once the match has
// started, and flushes queued shots as REQ_FIRE.
func (c *Client) sendLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.UpdateInterval)
	defer ticker.Stop()

	for c.running.Load() {
		<-ticker.C
		if !c.running.Load() {
			return
		}
		if !c.playing() {
			continue
		}

		c.mu.Lock()
		ship := c.world.Players[c.player].Kinematics()
		c.mu.Unlock()
		c.send(&protocol.StateUpdate{Timestamp: c.clock.Now(), Ship: ship})

		for _, ts := range c.drainFires() {
			c.send(&protocol.ReqFire{Timestamp: ts})
		}
	}
}

// playing reports whether GAME_START has arrived and GAME_END has not
func (c *Client) playing() bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case <-c.started:
		return true
	default:
		return false
	}
}

func (c *Client) queueFire(ts float32) {
	c.fireMu.Lock()
	c.fireQueue = append(c.fireQueue, ts)
	c.fireMu.Unlock()
}

func (c *Client) drainFires() []float32 {
	c.fireMu.Lock()
	defer c.fireMu.Unlock()
	out := c.fireQueue
	c.fireQueue = nil
	return out
}

func (c *Client) send(m protocol.Message) {
	if _, err := c.conn.WriteToUDPAddrPort(protocol.Encode(m), c.server); err != nil {
		c.logger.Printf("send %s: %v", m.Command(), err)
	}
}
