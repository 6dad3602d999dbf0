package store

import (
	"errors"
	"sort"

	"spaceship-arena/protocol"
)

// ErrNoHighscores means nothing has been saved yet; the returned table is
// empty but usable.
var ErrNoHighscores = errors.New("no highscores saved")

// Record is one highscore row. PlayedAt is unix seconds.
type Record struct {
	Name     string `json:"name" msgpack:"name"`
	Score    int32  `json:"score" msgpack:"score"`
	PlayedAt int64  `json:"played_at" msgpack:"played_at"`
}

// Table is the top scores, best first
type Table [protocol.HighscoreSlots]Record

// Add puts score into the table if it beats the lowest entry, replacing
// that entry and re-sorting. Ties with the lowest entry are rejected.
func (t *Table) Add(score int32, name string, at int64) bool {
	last := &t[len(t)-1]
	if score <= last.Score {
		return false
	}
	*last = Record{Name: name, Score: score, PlayedAt: at}
	sort.SliceStable(t[:], func(i, j int) bool {
		return t[i].Score > t[j].Score
	})
	return true
}

// Wire converts the table to its GAME_END form
func (t *Table) Wire() [protocol.HighscoreSlots]protocol.Score {
	var out [protocol.HighscoreSlots]protocol.Score
	for i, r := range t {
		out[i] = protocol.Score{Value: r.Score, PlayedAt: r.PlayedAt}
	}
	return out
}

// Highscores persists the table
type Highscores interface {
	Load() (Table, error)
	Save(Table) error
}
