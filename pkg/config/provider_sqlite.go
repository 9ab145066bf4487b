package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// schemaSQL creates the configuration tables when they do not exist. The
// single-row tables use id=1 as their fixed key.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS observers (
	name TEXT PRIMARY KEY,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	altitude REAL NOT NULL DEFAULT 0,
	timezone TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS horizon_settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	years INTEGER NOT NULL DEFAULT 0,
	inner_station_step INTEGER NOT NULL DEFAULT 0,
	outer_station_step INTEGER NOT NULL DEFAULT 0,
	conjunction_step INTEGER NOT NULL DEFAULT 0,
	conjunction_gate REAL NOT NULL DEFAULT 0,
	aspect_orb REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS storage_backends (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	sqlite_path TEXT NOT NULL DEFAULT '',
	timescaledb_connection TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS controllers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	rest_cert TEXT NOT NULL DEFAULT '',
	rest_key TEXT NOT NULL DEFAULT '',
	rest_port INTEGER NOT NULL DEFAULT 0,
	rest_listen_addr TEXT NOT NULL DEFAULT '',
	rest_default_observer TEXT NOT NULL DEFAULT ''
);
`

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize config schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	observers, err := s.GetObservers()
	if err != nil {
		return nil, fmt.Errorf("failed to load observers: %w", err)
	}
	config.Observers = observers

	horizon, err := s.getHorizonSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load horizon settings: %w", err)
	}
	config.Horizon = horizon

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

// GetObservers returns observer configurations from the database
func (s *SQLiteProvider) GetObservers() ([]ObserverData, error) {
	rows, err := s.db.Query(`
		SELECT name, latitude, longitude, altitude, timezone
		FROM observers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query observers: %w", err)
	}
	defer rows.Close()

	var observers []ObserverData
	for rows.Next() {
		var obs ObserverData
		if err := rows.Scan(&obs.Name, &obs.Latitude, &obs.Longitude, &obs.Altitude, &obs.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan observer: %w", err)
		}
		observers = append(observers, obs)
	}
	return observers, rows.Err()
}

// SetObserver inserts or replaces an observer row
func (s *SQLiteProvider) SetObserver(obs ObserverData) error {
	_, err := s.db.Exec(`
		INSERT INTO observers (name, latitude, longitude, altitude, timezone)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			altitude = excluded.altitude,
			timezone = excluded.timezone
	`, obs.Name, obs.Latitude, obs.Longitude, obs.Altitude, obs.Timezone)
	if err != nil {
		return fmt.Errorf("failed to upsert observer: %w", err)
	}
	return nil
}

func (s *SQLiteProvider) getHorizonSettings() (HorizonData, error) {
	var h HorizonData
	err := s.db.QueryRow(`
		SELECT years, inner_station_step, outer_station_step,
		       conjunction_step, conjunction_gate, aspect_orb
		FROM horizon_settings WHERE id = 1
	`).Scan(&h.Years, &h.InnerStationStep, &h.OuterStationStep,
		&h.ConjunctionStep, &h.ConjunctionGate, &h.AspectOrb)
	if err == sql.ErrNoRows {
		return HorizonData{}, nil
	}
	if err != nil {
		return HorizonData{}, fmt.Errorf("failed to query horizon settings: %w", err)
	}
	return h, nil
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	var sqlitePath, timescaleConn string
	err := s.db.QueryRow(`
		SELECT sqlite_path, timescaledb_connection
		FROM storage_backends WHERE id = 1
	`).Scan(&sqlitePath, &timescaleConn)
	if err == sql.ErrNoRows {
		return &StorageData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage backends: %w", err)
	}

	storage := &StorageData{}
	if sqlitePath != "" {
		storage.SQLite = &SQLiteData{Path: sqlitePath}
	}
	if timescaleConn != "" {
		storage.TimescaleDB = &TimescaleDBData{ConnectionString: timescaleConn}
	}
	return storage, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	rows, err := s.db.Query(`
		SELECT type, rest_cert, rest_key, rest_port, rest_listen_addr, rest_default_observer
		FROM controllers
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var c ControllerData
		var rest RESTServerData
		if err := rows.Scan(&c.Type, &rest.Cert, &rest.Key, &rest.Port, &rest.ListenAddr, &rest.DefaultObserver); err != nil {
			return nil, fmt.Errorf("failed to scan controller: %w", err)
		}
		if c.Type == "rest" {
			c.RESTServer = &rest
		}
		controllers = append(controllers, c)
	}
	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configuration supports updates
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
