package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/internal/types"
	_ "modernc.org/sqlite"
)

// SQLiteStorage archives events in a local SQLite database
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT NOT NULL,
	observer TEXT NOT NULL,
	event_type TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	event_time TIMESTAMP NOT NULL,
	planet TEXT NOT NULL,
	planet2 TEXT NOT NULL DEFAULT '',
	magnitude REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (id, observer)
);
CREATE INDEX IF NOT EXISTS idx_events_time ON events (event_time);
CREATE INDEX IF NOT EXISTS idx_events_observer ON events (observer);
`

// NewSQLiteStorage opens (and if necessary initializes) the event archive
func NewSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open SQLite event archive: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping SQLite event archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create events table: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// StartStorageEngine creates a goroutine loop to receive events and write
// them to the archive
func (s *SQLiteStorage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.EventRecord {
	log.Info("starting SQLite storage engine...")
	eventChan := make(chan types.EventRecord, 10)
	go s.processEvents(ctx, wg, eventChan)
	return eventChan
}

func (s *SQLiteStorage) processEvents(ctx context.Context, wg *sync.WaitGroup, events <-chan types.EventRecord) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case ev := <-events:
			s.StoreEvent(ctx, ev)
		case <-ctx.Done():
			log.Info("cancellation request received, cancelling SQLite event processor")
			s.db.Close()
			return
		}
	}
}

// StoreEvent upserts one event row. The key is (id, observer): event IDs
// are derived from the event itself, so the same window scanned for two
// observers yields identical IDs that must not clobber each other.
func (s *SQLiteStorage) StoreEvent(ctx context.Context, ev types.EventRecord) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, observer, event_type, title, description, event_time, planet, planet2, magnitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, observer) DO UPDATE SET
			event_type = excluded.event_type,
			title = excluded.title,
			description = excluded.description,
			event_time = excluded.event_time,
			planet = excluded.planet,
			planet2 = excluded.planet2,
			magnitude = excluded.magnitude
	`, ev.ID, ev.Observer, ev.EventType, ev.Title, ev.Description, ev.EventTime, ev.Planet, ev.Planet2, ev.Magnitude)
	if err != nil {
		log.Errorf("could not store event %s: %v", ev.ID, err)
	}
}

// Events returns archived events for one observer in chronological order
func (s *SQLiteStorage) Events(ctx context.Context, observer string) ([]types.EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, observer, event_type, title, description, event_time, planet, planet2, magnitude
		FROM events
		WHERE observer = ?
		ORDER BY event_time
	`, observer)
	if err != nil {
		return nil, fmt.Errorf("could not query events: %w", err)
	}
	defer rows.Close()

	var events []types.EventRecord
	for rows.Next() {
		var ev types.EventRecord
		if err := rows.Scan(&ev.ID, &ev.Observer, &ev.EventType, &ev.Title, &ev.Description,
			&ev.EventTime, &ev.Planet, &ev.Planet2, &ev.Magnitude); err != nil {
			return nil, fmt.Errorf("could not scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
