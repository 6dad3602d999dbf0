package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTable() Table {
	var tab Table
	tab.Add(250, "player 0", 1743465600)
	tab.Add(-10, "player 1", 1743465600)
	tab.Add(75, "player 2", 1743465601)
	return tab
}

func TestDBEmptyLoad(t *testing.T) {
	db := openTestDB(t)
	tab, err := db.Load()
	if !errors.Is(err, ErrNoHighscores) {
		t.Errorf("expected ErrNoHighscores, got %v", err)
	}
	if tab != (Table{}) {
		t.Errorf("expected empty table, got %+v", tab)
	}
}

func TestDBSaveLoad(t *testing.T) {
	db := openTestDB(t)
	want := sampleTable()
	if err := db.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// saving again overwrites instead of appending
	want.Add(1000, "player 3", 1743465700)
	if err := db.Save(want); err != nil {
		t.Fatal(err)
	}
	got, _ = db.Load()
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDBRecordMatch(t *testing.T) {
	db := openTestDB(t)
	first, err := db.RecordMatch(Match{
		Duration: 60,
		EndedAt:  time.Unix(1743465600, 0),
		Players:  []MatchPlayer{{Slot: 0, Name: "player 0", Score: 50}, {Slot: 1, Name: "player 1", Score: -10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 36 {
		t.Errorf("expected a uuid id, got %q", first)
	}
	second, err := db.RecordMatch(Match{ID: "fixed", Duration: 30, EndedAt: time.Unix(1743465700, 0)})
	if err != nil {
		t.Fatal(err)
	}
	if second != "fixed" {
		t.Errorf("expected given id to be kept, got %q", second)
	}

	matches, err := db.RecentMatches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "fixed" || matches[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", matches[0].ID, matches[1].ID)
	}
	if len(matches[1].Players) != 2 || matches[1].Players[1].Score != -10 {
		t.Errorf("unexpected players %+v", matches[1].Players)
	}
	if matches[1].Duration != 60 {
		t.Errorf("expected duration 60, got %f", matches[1].Duration)
	}

	limited, _ := db.RecentMatches(1)
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing.msgpack"))
	tab, err := fs.Load()
	if !errors.Is(err, ErrNoHighscores) {
		t.Errorf("expected ErrNoHighscores, got %v", err)
	}
	if tab != (Table{}) {
		t.Errorf("expected empty table, got %+v", tab)
	}
}

func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscores.msgpack")
	fs := NewFileStore(path)
	want := sampleTable()
	if err := fs.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.msgpack")
	os.WriteFile(path, []byte{0xc1}, 0o644)
	if _, err := NewFileStore(path).Load(); err == nil || errors.Is(err, ErrNoHighscores) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestEventLogFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	events := NewEventLog(db, nil)
	for i := 0; i < 3; i++ {
		events.Track(Event{MatchID: "m1", Kind: EvtSpawn, Player: -1, Slot: i})
	}
	events.Track(Event{MatchID: "m1", Kind: EvtFire, Player: 2, Slot: -1, MatchTime: 1.5})
	events.Track(Event{MatchID: "other", Kind: EvtFire, Player: 0, Slot: -1})
	events.Stop()

	counts, err := db.EventCounts("m1")
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtSpawn] != 3 || counts[EvtFire] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
	if events.Dropped() != 0 {
		t.Errorf("expected no drops, got %d", events.Dropped())
	}
}

func TestEventLogWithoutDB(t *testing.T) {
	events := NewEventLog(nil, nil)
	events.Track(Event{Kind: EvtJoin})
	events.Stop()
}
