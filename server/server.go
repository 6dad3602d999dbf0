package server

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

	"github.com/google/uuid"

	"spaceship-arena/config"
	"spaceship-arena/game"
	"spaceship-arena/store"
)

var (
	ErrNotListening = errors.New("server: not listening")
	ErrClosed       = errors.New("server: closed")
)

// Options wires a Server to its collaborators. Only Config is required.
type Options struct {
	Config  config.Config
	Scores  store.Highscores
	History MatchRecorder
	Events  *store.EventLog
	Logger  *log.Logger
	Now     func() time.Time
}

// Server is the authoritative side of one match
type Server struct {
	cfg     config.Config
	logger  *log.Logger
	scores  store.Highscores
	history MatchRecorder
	events  *store.EventLog
	now     func() time.Time

	conn    *net.UDPConn
	running atomic.Bool
	wg      sync.WaitGroup
	quit    chan struct{}
	closeMu sync.Once

	mu        sync.Mutex // guards everything below
	world     *game.World
	clock     game.MatchClock
	phase     Phase
	slots     slotTable
	remaining float32
	spawnIn   float32
	nextSync  float32
	startedAt time.Time
	table     store.Table

	matchID string
	started chan struct{}
	stats   Stats
	hub     *Hub
}

// New creates a server in PhaseWaiting. Call Listen, then Run.
func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := loggerOrStderr(opts.Logger)
	s := &Server{
		cfg:     opts.Config,
		logger:  logger,
		scores:  opts.Scores,
		history: opts.History,
		events:  opts.Events,
		now:     now,
		quit:    make(chan struct{}),
		world:   game.NewWorld(opts.Config.Players),
		slots:   newSlotTable(opts.Config.Players),
		matchID: uuid.NewString(),
		started: make(chan struct{}),
		hub:     NewHub(logger),
	}
	go s.hub.Run()
	return s
}

func loggerOrStderr(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(os.Stderr, "[server] ", log.Ltime|log.Lshortfile)
}

// Listen binds the UDP socket. A bind failure is returned as is.
func (s *Server) Listen(addr string) error {
	uaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", uaddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	s.conn = conn
	s.logger.Printf("listening on %s, waiting for %d players", conn.LocalAddr(), s.slots.capacity)
	return nil
}

// Addr is the bound socket address, or the zero value before Listen
func (s *Server) Addr() netip.AddrPort {
	if s.conn == nil {
		return netip.AddrPort{}
	}
	return s.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Run starts the receive and send loops and drives the match until it
// ends, ctx is done or Close is called.
func (s *Server) Run(ctx context.Context) (Result, error) {
	if s.conn == nil {
		return Result{}, ErrNotListening
	}
	s.running.Store(true)
	s.wg.Add(2)
	go s.receiveLoop()
	go s.sendLoop()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			s.stopLoops()
			return Result{}, ctx.Err()
		case <-s.quit:
			s.stopLoops()
			return Result{}, ErrClosed
		case t := <-ticker.C:
			elapsed := float32(t.Sub(last).Seconds())
			last = t
			if s.tick(elapsed) {
				s.stopLoops()
				return s.finalize(), nil
			}
		}
	}
}

// Started is closed when the last slot fills and GAME_START goes out
func (s *Server) Started() <-chan struct{} { return s.started }

func (s *Server) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Server) Stats() StatsSnapshot { return s.stats.Snapshot() }

func (s *Server) MatchID() string { return s.matchID }

// Close stops the loops, then releases the socket and the spectator hub
func (s *Server) Close() error {
	var err error
	s.closeMu.Do(func() {
		close(s.quit)
		s.stopLoops()
		s.hub.Stop()
		if s.conn != nil {
			err = s.conn.Close()
		}
	})
	return err
}

func (s *Server) stopLoops() {
	s.running.Store(false)
	s.wg.Wait()
}

// track forwards a match event to the event log, if there is one
func (s *Server) track(kind string, player, slot int, at float32) {
	if s.events == nil {
		return
	}
	s.events.Track(store.Event{
		MatchID:   s.matchID,
		Kind:      kind,
		Player:    player,
		Slot:      slot,
		MatchTime: at,
	})
}
