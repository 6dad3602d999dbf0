package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/netip"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"spaceship-arena/config"
	"spaceship-arena/game"
	"spaceship-arena/protocol"
)

const (
	// RetryInterval is how long the handshake waits for RSP_CONNECT
	// before asking again.
	RetryInterval = 200 * time.Millisecond
	// StartRetryInterval paces REQ_CONNECT while waiting for GAME_START,
	// so a lost GAME_START is re-sent by the server.
	StartRetryInterval = time.Second
)

var (
	ErrBadPlayerIndex = errors.New("client: player index out of range")
	ErrClosed         = errors.New("client: closed")
)

// Options wires a Client. Only Config is required.
type Options struct {
	Config config.Config
	Logger *log.Logger
}

// Stats counts inbound traffic the client chose not to apply
type Stats struct {
	In        atomic.Uint64
	Malformed atomic.Uint64
	Foreign   atomic.Uint64 // not from the server
	Stale     atomic.Uint64 // ALL_UPDATE older than the last applied one
}

// Outcome is what GAME_END reports
type Outcome struct {
	Player     int
	Highscores [protocol.HighscoreSlots]protocol.Score
	Scores     [protocol.MaxPlayers]int32
	Active     [protocol.MaxPlayers]bool // slots that were in play
}

// Client is one player's session with the server
type Client struct {
	cfg    config.Config
	logger *log.Logger
	conn   *net.UDPConn
	server netip.AddrPort
	player int

	running   atomic.Bool
	wg        sync.WaitGroup
	closeOnce sync.Once
	startOnce sync.Once
	endOnce   sync.Once
	started   chan struct{}
	done      chan struct{}

	mu       sync.Mutex // guards everything below
	world    *game.World
	clock    game.MatchClock
	lastAll  float32
	cooldown float32
	outcome  Outcome

	fireMu    sync.Mutex
	fireQueue []float32

	stats Stats
}

func loggerOrStderr(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(os.Stderr, "[client] ", log.Ltime|log.Lshortfile)
}

// Dial binds the local port and performs the handshake: REQ_CONNECT is
// repeated every RetryInterval until RSP_CONNECT arrives or ctx ends.
// On success the receive and send loops are running.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	cfg := opts.Config
	raddr, err := net.ResolveUDPAddr("udp", cfg.ServerAddr())
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.ServerAddr(), err)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.ClientPort})
	if err != nil {
		return nil, fmt.Errorf("bind client port %d: %w", cfg.ClientPort, err)
	}

	c := &Client{
		cfg:     cfg,
		logger:  loggerOrStderr(opts.Logger),
		conn:    conn,
		server:  canonical(raddr.AddrPort()),
		started: make(chan struct{}),
		done:    make(chan struct{}),
		world:   game.NewWorld(0),
	}

	idx, err := c.handshake(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.player = idx
	c.world.Players[idx].Active = true
	c.world.Players[idx].Connected = true
	c.outcome.Player = idx
	c.logger.Printf("connected to %s as player %d", c.server, idx)

	c.running.Store(true)
	c.wg.Add(2)
	go c.receiveLoop()
	go c.sendLoop()
	return c, nil
}

func (c *Client) handshake(ctx context.Context) (int, error) {
	buf := make([]byte, protocol.MaxDatagram)
	req := protocol.Encode(&protocol.ReqConnect{})
	for {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		if _, err := c.conn.WriteToUDPAddrPort(req, c.server); err != nil {
			c.logger.Printf("send REQ_CONNECT: %v", err)
		}

		deadline := time.Now().Add(RetryInterval)
		for {
			c.conn.SetReadDeadline(deadline)
			n, from, err := c.conn.ReadFromUDPAddrPort(buf)
			if err != nil {
				if errors.Is(err, os.ErrDeadlineExceeded) {
					break
				}
				return -1, fmt.Errorf("handshake: %w", err)
			}
			if canonical(from) != c.server {
				c.stats.Foreign.Add(1)
				continue
			}
			msg, err := protocol.Decode(buf[:n])
			if err != nil {
				c.stats.Malformed.Add(1)
				continue
			}
			rsp, ok := msg.(*protocol.RspConnect)
			if !ok {
				continue
			}
			if rsp.Player >= protocol.MaxPlayers {
				return -1, fmt.Errorf("%w: %d", ErrBadPlayerIndex, rsp.Player)
			}
			return int(rsp.Player), nil
		}
	}
}

// WaitGameStart blocks until GAME_START arrives. REQ_CONNECT is repeated
// every StartRetryInterval in case GAME_START was lost.
func (c *Client) WaitGameStart(ctx context.Context) error {
	ticker := time.NewTicker(StartRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.started:
			return nil
		case <-c.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !c.running.Load() {
				return ErrClosed
			}
			c.send(&protocol.ReqConnect{})
		}
	}
}

// Player is the slot index the server assigned
func (c *Client) Player() int { return c.player }

// Started is closed once GAME_START has been received
func (c *Client) Started() <-chan struct{} { return c.started }

// Done is closed once GAME_END has been received
func (c *Client) Done() <-chan struct{} { return c.done }

// Outcome returns the GAME_END results. ok is false before the match ends.
func (c *Client) Outcome() (Outcome, bool) {
	select {
	case <-c.done:
	default:
		return Outcome{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, true
}

// Clock is the local estimate of match time
func (c *Client) Clock() float32 { return c.clock.Now() }

// View calls fn with the world under the session lock. fn must not keep
// references to it.
func (c *Client) View(fn func(w *game.World)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.world)
}

// Stats returns a reference to the live counters
func (c *Client) Stats() *Stats { return &c.stats }

// Close stops both loops, then releases the socket
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.running.Store(false)
		c.wg.Wait()
		err = c.conn.Close()
	})
	return err
}

func canonical(addr netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(addr.Addr().Unmap(), addr.Port())
}
