package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/internal/types"
)

func TestMain(m *testing.M) {
	if err := log.Init(true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testRecord(id, observer string, at time.Time) types.EventRecord {
	return types.EventRecord{
		ID:          id,
		Observer:    observer,
		EventType:   "Solar Eclipse",
		Title:       "Total Solar Eclipse",
		Description: "Total solar eclipse, magnitude 1.05.",
		EventTime:   at,
		Planet:      "Sun",
		Magnitude:   1.05,
	}
}

func TestSQLiteStoreAndQuery(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.StoreEvent(ctx, testRecord("ev-2", "home", base.Add(48*time.Hour)))
	s.StoreEvent(ctx, testRecord("ev-1", "home", base))
	s.StoreEvent(ctx, testRecord("ev-3", "away", base))

	events, err := s.Events(ctx, "home")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events for home, want 2", len(events))
	}
	if events[0].ID != "ev-1" || events[1].ID != "ev-2" {
		t.Errorf("events not in chronological order: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestSQLiteUpsertByID(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.StoreEvent(ctx, testRecord("ev-1", "home", at))

	// Re-scanning the same window produces the same ID; the row is
	// replaced, not duplicated.
	updated := testRecord("ev-1", "home", at)
	updated.Magnitude = 1.10
	s.StoreEvent(ctx, updated)

	events, err := s.Events(ctx, "home")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 after upsert", len(events))
	}
	if events[0].Magnitude != 1.10 {
		t.Errorf("magnitude = %v, want 1.10", events[0].Magnitude)
	}
}

func TestSQLiteSameIDAcrossObservers(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}

	// Event IDs are derived from the event itself, so archiving the
	// same window for two observers produces identical IDs. Each
	// observer must keep its own row.
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.StoreEvent(ctx, testRecord("ev-1", "home", at))
	s.StoreEvent(ctx, testRecord("ev-1", "away", at))

	for _, observer := range []string{"home", "away"} {
		events, err := s.Events(ctx, observer)
		if err != nil {
			t.Fatalf("Events(%s): %v", observer, err)
		}
		if len(events) != 1 {
			t.Errorf("got %d events for %s, want 1", len(events), observer)
		}
	}
}

func TestSQLiteEngineChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	s, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}

	ch := s.StartStorageEngine(ctx, &wg)
	ch <- testRecord("ev-1", "home", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	// The processor is asynchronous; poll briefly for the row to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		events, err := s.Events(ctx, "home")
		if err == nil && len(events) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("event never arrived in the archive")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	wg.Wait()
}
