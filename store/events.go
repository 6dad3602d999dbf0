package store

import (
	"log"
	"sync"
	"time"
)

// Event kinds written to match_events
const (
	EvtMatchStart = "match_start"
	EvtMatchEnd   = "match_end"
	EvtJoin       = "join"
	EvtSpawn      = "asteroid_spawn"
	EvtDestroy    = "asteroid_destroy"
	EvtFire       = "fire"
	EvtShipHit    = "ship_hit"
)

// Event is one thing that happened during a match. Player and Slot are -1
// when they do not apply.
type Event struct {
	MatchID   string
	Kind      string
	Player    int
	Slot      int
	MatchTime float32
	At        time.Time
}

// EventLog batches match events and writes them in the background
type EventLog struct {
	db     *DB
	logger *log.Logger
	events chan Event
	stop   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int
}

const (
	eventBuffer     = 1024
	eventBatchSize  = 50
	eventFlushEvery = 5 * time.Second
)

// NewEventLog starts the background writer. A nil db discards events.
func NewEventLog(db *DB, logger *log.Logger) *EventLog {
	if logger == nil {
		logger = log.Default()
	}
	l := &EventLog{
		db:     db,
		logger: logger,
		events: make(chan Event, eventBuffer),
		stop:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.writer()
	return l
}

// Track enqueues an event without blocking; it is dropped when the
// buffer is full.
func (l *EventLog) Track(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case l.events <- e:
	default:
		l.mu.Lock()
		l.dropped++
		l.mu.Unlock()
	}
}

// Dropped reports how many events were discarded on a full buffer
func (l *EventLog) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Stop drains pending events and waits for the writer. Track must not
// be called after Stop.
func (l *EventLog) Stop() {
	close(l.stop)
	l.wg.Wait()
}

func (l *EventLog) writer() {
	defer l.wg.Done()

	batch := make([]Event, 0, 64)
	ticker := time.NewTicker(eventFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case e := <-l.events:
			batch = append(batch, e)
			if len(batch) >= eventBatchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-l.stop:
			for {
				select {
				case e := <-l.events:
					batch = append(batch, e)
				default:
					l.flush(batch)
					return
				}
			}
		}
	}
}

func (l *EventLog) flush(events []Event) {
	if l.db == nil || len(events) == 0 {
		return
	}
	tx, err := l.db.conn.Begin()
	if err != nil {
		l.logger.Printf("events: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO match_events (match_id, kind, player, slot, match_time, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		l.logger.Printf("events: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.MatchID, e.Kind, e.Player, e.Slot, e.MatchTime, e.At.Unix()); err != nil {
			l.logger.Printf("events: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		l.logger.Printf("events: commit error: %v", err)
	}
}
