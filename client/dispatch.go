package client

import (
	"errors"
	"net"
	"os"
	"time"

	"spaceship-arena/game"
	"spaceship-arena/protocol"
)

func (c *Client) receiveLoop() {
	defer c.wg.Done()
	buf := make([]byte, protocol.MaxDatagram)
	for c.running.Load() {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PollInterval))
		n, from, err := c.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			c.logger.Printf("receive: %v", err)
			continue
		}
		if canonical(from) != c.server {
			c.stats.Foreign.Add(1)
			continue
		}
		c.stats.In.Add(1)
		c.handle(buf[:n])
	}
}

// handle applies one datagram from the server
func (c *Client) handle(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.stats.Malformed.Add(1)
		c.logger.Printf("drop datagram: %v", err)
		return
	}

	switch m := msg.(type) {
	case *protocol.GameStart:
		c.startOnce.Do(func() {
			c.clock.Set(0)
			close(c.started)
			c.logger.Printf("match started")
		})

	case *protocol.AllUpdate:
		c.mu.Lock()
		if m.Timestamp <= c.lastAll {
			c.mu.Unlock()
			c.stats.Stale.Add(1)
			return
		}
		c.lastAll = m.Timestamp
		now := c.clock.Now()
		for i := range m.Players {
			if i == c.player {
				continue
			}
			p := &c.world.Players[i]
			if !c.seat(i, m.Players[i]) {
				continue
			}
			p.SetMotion(m.Players[i])
			game.Interpolate(&p.Entity, now, m.Timestamp)
		}
		c.mu.Unlock()

	case *protocol.RspFire:
		if m.Player >= protocol.MaxPlayers {
			c.stats.Malformed.Add(1)
			return
		}
		shooter := int(m.Player)
		if shooter == c.player {
			return // already fired locally
		}
		c.mu.Lock()
		bi := c.world.Shoot(shooter)
		game.Interpolate(&c.world.Bullets[bi].Entity, c.clock.Now(), m.Timestamp)
		c.mu.Unlock()

	case *protocol.AsteroidSpawn:
		c.mu.Lock()
		slot := c.world.SpawnAsteroid()
		game.Interpolate(&c.world.Objects[slot], c.clock.Now(), m.Timestamp)
		c.mu.Unlock()

	case *protocol.AsteroidDestroy:
		c.mu.Lock()
		ok := c.world.DestroyAsteroid(int(m.Slot))
		c.mu.Unlock()
		if !ok {
			c.logger.Printf("destroy for unknown asteroid slot %d", m.Slot)
		}

	case *protocol.TimeSync:
		c.mu.Lock()
		for i := range m.Players {
			if i == c.player || c.seat(i, m.Players[i]) {
				c.world.Players[i].SetMotion(m.Players[i])
			}
		}
		c.world.Advance(m.Timestamp - c.clock.Now())
		c.clock.Set(m.Timestamp)
		c.mu.Unlock()

	case *protocol.GameEnd:
		c.mu.Lock()
		c.outcome.Highscores = m.Highscores
		c.outcome.Scores = m.Scores
		for i := range c.world.Players {
			c.outcome.Active[i] = c.world.Players[i].Active
		}
		c.mu.Unlock()
		c.endOnce.Do(func() {
			close(c.done)
			c.logger.Printf("match over, scores %v", m.Scores)
		})
	}
}

// seat marks a remote slot active while the server reports a ship in it.
// Caller holds c.mu.
func (c *Client) seat(i int, k protocol.Kinematics) bool {
	c.world.Players[i].Active = k.ScaleX > 0
	return c.world.Players[i].Active
}
