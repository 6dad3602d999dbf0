package client

import (
	"context"
	"time"

	"spaceship-arena/game"
	"spaceship-arena/protocol"
)

const (
	FrameRate     = 60
	FrameDuration = time.Second / FrameRate
)

// InputSource supplies the local player's intent once per frame
type InputSource interface {
	Intent(self protocol.Kinematics, dt float32) game.Intent
}

// InputFunc adapts a plain function to InputSource
type InputFunc func(self protocol.Kinematics, dt float32) game.Intent

func (f InputFunc) Intent(self protocol.Kinematics, dt float32) game.Intent { return f(self, dt) }

// Frame advances the local simulation by dt. Only the local ship is
// steered; everything else moves by dead reckoning. A shot is predicted
// locally and queued for the send loop.
func (c *Client) Frame(dt float32, in game.Intent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Advance(dt)
	p := &c.world.Players[c.player]
	game.ApplyIntent(p, in, dt)

	c.cooldown -= dt
	if in.Fire && c.cooldown <= 0 {
		c.cooldown = game.FireCooldown
		c.world.Shoot(c.player)
		c.queueFire(now)
	}

	c.world.Step(dt)
	c.world.PredictBulletHits(dt)
}

// Play runs frames at FrameRate until GAME_END or ctx ends
func (c *Client) Play(ctx context.Context, input InputSource) (Outcome, error) {
	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-c.done:
			out, _ := c.Outcome()
			return out, nil
		case t := <-ticker.C:
			dt := float32(t.Sub(last).Seconds())
			last = t

			c.mu.Lock()
			self := c.world.Players[c.player].Kinematics()
			c.mu.Unlock()
			c.Frame(dt, input.Intent(self, dt))
		}
	}
}
