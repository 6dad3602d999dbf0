package server

import (
	"errors"
	"fmt"
	"time"

	"spaceship-arena/protocol"
	"spaceship-arena/store"
)

// Phase is the lifecycle of a match
type Phase int32

const (
	PhaseWaiting    Phase = 0
	PhaseInProgress Phase = 1
	PhaseEnded      Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseInProgress:
		return "in_progress"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Result is what a finished match leaves behind
type Result struct {
	MatchID    string
	Players    int
	Scores     [protocol.MaxPlayers]int32
	Highscores store.Table
	Duration   time.Duration
}

// MatchRecorder keeps match history
type MatchRecorder interface {
	RecordMatch(store.Match) (string, error)
}

// playerName is how a slot appears in the highscore table
func playerName(slot int) string {
	return fmt.Sprintf("player %d", slot)
}

// startMatch moves the session into play. Caller holds s.mu.
func (s *Server) startMatch() {
	s.phase = PhaseInProgress
	s.clock.Set(0)
	s.remaining = float32(s.cfg.MatchDuration.Seconds())
	s.spawnIn = asteroidInterval
	s.nextSync = float32(s.cfg.SyncInterval.Seconds())
	s.startedAt = s.now()
	close(s.started)
}

// finalize merges this match into the highscores, records it and sends
// GAME_END to every client.
func (s *Server) finalize() Result {
	s.mu.Lock()
	scores := s.world.Scores()
	players := s.slots.Len()
	addrs := s.slots.Addrs()
	duration := s.now().Sub(s.startedAt)
	s.mu.Unlock()

	var table store.Table
	if s.scores != nil {
		loaded, err := s.scores.Load()
		switch {
		case errors.Is(err, store.ErrNoHighscores):
			s.logger.Printf("highscores: %v, starting a new table", err)
			loaded = store.Table{}
		case err != nil:
			s.logger.Printf("highscores: load failed, starting empty: %v", err)
			loaded = store.Table{}
		}
		table = loaded
	}

	at := s.now().Unix()
	for i := 0; i < players; i++ {
		if table.Add(scores[i], playerName(i), at) {
			s.logger.Printf("%s set a highscore: %d", playerName(i), scores[i])
		}
	}
	if s.scores != nil {
		if err := s.scores.Save(table); err != nil {
			s.logger.Printf("highscores: save failed: %v", err)
		}
	}

	if s.history != nil {
		m := store.Match{ID: s.matchID, Duration: duration.Seconds(), EndedAt: s.now()}
		for i := 0; i < players; i++ {
			m.Players = append(m.Players, store.MatchPlayer{Slot: i, Name: playerName(i), Score: scores[i]})
		}
		if _, err := s.history.RecordMatch(m); err != nil {
			s.logger.Printf("history: record match %s failed: %v", s.matchID, err)
		}
	}
	s.track(store.EvtMatchEnd, -1, -1, s.clock.Now())

	s.sendAll(&protocol.GameEnd{Highscores: table.Wire(), Scores: scores}, addrs)
	s.logger.Printf("match %s ended, scores %v", s.matchID, scores[:players])

	res := Result{
		MatchID:    s.matchID,
		Players:    players,
		Scores:     scores,
		Highscores: table,
		Duration:   duration,
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return res
}
