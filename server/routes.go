package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"

	"spaceship-arena/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// matchLister is implemented by history stores that can list past matches
type matchLister interface {
	RecentMatches(limit int) ([]store.Match, error)
}

// eventCounter is implemented by history stores that keep the event log
type eventCounter interface {
	EventCounts(matchID string) (map[string]int, error)
}

// StatusResponse is the body of GET /stats
type StatusResponse struct {
	MatchID    string         `json:"match_id"`
	Phase      string         `json:"phase"`
	Clock      float32        `json:"clock"`
	Remaining  float32        `json:"remaining"`
	Players    int            `json:"players"`
	Capacity   int            `json:"capacity"`
	Asteroids  int            `json:"asteroids"`
	Spectators int            `json:"spectators"`
	Traffic    StatsSnapshot  `json:"traffic"`
	Events     map[string]int `json:"events,omitempty"`
}

// Handler returns the spectator HTTP surface
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stats", s.handleStats)
	r.Get("/highscores", s.handleHighscores)
	r.Get("/matches", s.handleMatches)
	r.Get("/join.png", s.handleJoinQR)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		MatchID:   s.matchID,
		Phase:     s.phase.String(),
		Clock:     s.clock.Now(),
		Remaining: s.remaining,
		Players:   s.slots.Len(),
		Capacity:  s.slots.capacity,
		Asteroids: s.world.ActiveAsteroids(),
	}
	s.mu.Unlock()
	resp.Spectators = s.hub.ClientCount()
	resp.Traffic = s.stats.Snapshot()
	if counter, ok := s.history.(eventCounter); ok {
		events, err := counter.EventCounts(resp.MatchID)
		if err != nil {
			s.logger.Printf("event counts for %s: %v", resp.MatchID, err)
		}
		resp.Events = events
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHighscores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		s.mu.Lock()
		table := s.table
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, table)
		return
	}
	table, err := s.scores.Load()
	if err != nil && !errors.Is(err, store.ErrNoHighscores) {
		s.logger.Printf("highscores: %v", err)
		errorJSON(w, http.StatusInternalServerError, "highscores unavailable")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.history.(matchLister)
	if !ok {
		errorJSON(w, http.StatusNotFound, "match history disabled")
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			errorJSON(w, http.StatusBadRequest, "limit must be 1..100")
			return
		}
		limit = n
	}
	matches, err := lister.RecentMatches(limit)
	if err != nil {
		s.logger.Printf("matches: %v", err)
		errorJSON(w, http.StatusInternalServerError, "match history unavailable")
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// JoinAddress is the UDP endpoint players should use. An unspecified bind
// address is replaced by the host the request came in on.
func (s *Server) JoinAddress(r *http.Request) string {
	addr := s.Addr()
	host := addr.Addr().String()
	if !addr.Addr().IsValid() || addr.Addr().IsUnspecified() {
		host = r.Host
		if h, _, err := net.SplitHostPort(r.Host); err == nil {
			host = h
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(int(addr.Port())))
}

func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(fmt.Sprintf("udp://%s", s.JoinAddress(r)), qrcode.Medium, 256)
	if err != nil {
		s.logger.Printf("qr encode: %v", err)
		errorJSON(w, http.StatusInternalServerError, "qr unavailable")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.hub.CanAccept() {
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade error: %v", err)
		return
	}

	initial, err := encodeSnapshot(s.Snapshot())
	if err != nil {
		s.logger.Printf("snapshot marshal error: %v", err)
	}
	client := NewClient(s.hub, conn, r.RemoteAddr)
	if !s.hub.Register(client, initial) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
