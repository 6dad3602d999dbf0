package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"spaceship-arena/client"
	"spaceship-arena/config"
	"spaceship-arena/game"
	"spaceship-arena/protocol"
)

// autopilot circles the arena, thrusting below cruise speed and firing
// whenever the cooldown allows.
type autopilot struct {
	rng   *rand.Rand
	turn  int
	until float32
}

const cruiseSpeed = 120.0

func (a *autopilot) Intent(self protocol.Kinematics, dt float32) game.Intent {
	a.until -= dt
	if a.until <= 0 {
		a.turn = a.rng.Intn(3) - 1
		a.until = 0.5 + a.rng.Float32()*1.5
	}
	speed := game.Vec2{X: self.VelX, Y: self.VelY}.Len()
	in := game.Intent{Turn: a.turn, Fire: true}
	if speed < cruiseSpeed {
		in.Thrust = 1
	}
	return in
}

func main() {
	envFile := flag.String("env", "", "Optional .env file (default: .env if present)")
	host := flag.String("host", "", "Server host (overrides ARENA_SERVER_HOST)")
	port := flag.Int("port", 0, "Server UDP port (overrides ARENA_SERVER_PORT)")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *host != "" {
		cfg.ServerHost = *host
	}
	if *port > 0 {
		cfg.ServerPort = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Connecting to %s", cfg.ServerAddr())
	c, err := client.Dial(ctx, client.Options{Config: cfg})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer c.Close()

	log.Printf("Joined as player %d, waiting for the match to start", c.Player())
	if err := c.WaitGameStart(ctx); err != nil {
		log.Printf("wait: %v", err)
		return
	}

	pilot := &autopilot{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	out, err := c.Play(ctx, pilot)
	if errors.Is(err, context.Canceled) {
		log.Println("Leaving match")
		return
	}
	if err != nil {
		log.Printf("play: %v", err)
		return
	}

	log.Println("Final scores:")
	for i, s := range out.Scores {
		if !out.Active[i] {
			continue
		}
		marker := ""
		if i == out.Player {
			marker = " (you)"
		}
		log.Printf("  player %d: %d%s", i, s, marker)
	}
	log.Println("Highscores:")
	for i, h := range out.Highscores {
		if h.PlayedAt == 0 {
			continue
		}
		log.Printf("  %d. %6d  %s", i+1, h.Value, time.Unix(h.PlayedAt, 0).Format(time.DateTime))
	}
}
