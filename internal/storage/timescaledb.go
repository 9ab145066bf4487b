package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/calder-ross/almagest/internal/database"
	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimescaleDBStorage archives events in a TimescaleDB hypertable
type TimescaleDBStorage struct {
	conn *gorm.DB
}

// The hypertable's primary key must include the time partitioning
// column, and the observer: the same window scanned for two observers
// yields identical event IDs, so upserts conflict on (id, observer,
// event_time).
func tableName() string { return "events" }

const createTableSQL = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT NOT NULL,
	observer TEXT NOT NULL,
	event_type TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	event_time TIMESTAMPTZ NOT NULL,
	planet TEXT NOT NULL,
	planet2 TEXT NOT NULL DEFAULT '',
	magnitude DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (id, observer, event_time)
);
`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createHypertableSQL = `
SELECT create_hypertable('events', 'event_time',
	chunk_time_interval => INTERVAL '1 year', if_not_exists => TRUE);
`

// NewTimescaleDBStorage connects to TimescaleDB and prepares the events
// hypertable
func NewTimescaleDBStorage(ctx context.Context, connectionString string) (*TimescaleDBStorage, error) {
	conn, err := database.CreateConnection(connectionString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to TimescaleDB: %w", err)
	}

	t := &TimescaleDBStorage{conn: conn}

	if err := conn.WithContext(ctx).Exec(createExtensionSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create TimescaleDB extension: %w", err)
	}
	if err := conn.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create events table: %w", err)
	}
	if err := conn.WithContext(ctx).Exec(createHypertableSQL).Error; err != nil {
		return nil, fmt.Errorf("could not create hypertable: %w", err)
	}

	return t, nil
}

// StartStorageEngine creates a goroutine loop to receive events and send
// them off to TimescaleDB
func (t *TimescaleDBStorage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.EventRecord {
	log.Info("starting TimescaleDB storage engine...")
	eventChan := make(chan types.EventRecord, 10)
	go t.processEvents(ctx, wg, eventChan)
	return eventChan
}

func (t *TimescaleDBStorage) processEvents(ctx context.Context, wg *sync.WaitGroup, events <-chan types.EventRecord) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case ev := <-events:
			t.StoreEvent(ctx, ev)
		case <-ctx.Done():
			log.Info("cancellation request received, cancelling TimescaleDB event processor")
			return
		}
	}
}

// StoreEvent upserts one event row in TimescaleDB
func (t *TimescaleDBStorage) StoreEvent(ctx context.Context, ev types.EventRecord) {
	err := t.conn.WithContext(ctx).Table(tableName()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "observer"}, {Name: "event_time"}},
			UpdateAll: true,
		}).
		Create(&ev).Error
	if err != nil {
		log.Errorf("could not store event %s: %v", ev.ID, err)
	}
}

// Events returns archived events for one observer in chronological order
func (t *TimescaleDBStorage) Events(ctx context.Context, observer string) ([]types.EventRecord, error) {
	var events []types.EventRecord
	err := t.conn.WithContext(ctx).Table(tableName()).
		Where("observer = ?", observer).
		Order("event_time").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("could not query events: %w", err)
	}
	return events, nil
}
