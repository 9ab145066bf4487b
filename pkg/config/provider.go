package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetObservers() ([]ObserverData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	// Configuration management (for SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Observers   []ObserverData   `json:"observers"`
	Horizon     HorizonData      `json:"horizon,omitempty"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// ObserverData holds a named geographic location that charts and event
// scans are computed for
type ObserverData struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// HorizonData tunes the event search engine. Zero values select the
// engine defaults.
type HorizonData struct {
	Years            int     `json:"years,omitempty"`
	InnerStationStep int     `json:"inner_station_step,omitempty"`
	OuterStationStep int     `json:"outer_station_step,omitempty"`
	ConjunctionStep  int     `json:"conjunction_step,omitempty"`
	ConjunctionGate  float64 `json:"conjunction_gate,omitempty"`
	AspectOrb        float64 `json:"aspect_orb,omitempty"`
}

// StorageData holds the configuration for various storage backends
type StorageData struct {
	SQLite      *SQLiteData      `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

type SQLiteData struct {
	Path string `json:"path"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// ControllerData holds the configuration for various controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

type RESTServerData struct {
	Cert            string `json:"cert,omitempty"`
	Key             string `json:"key,omitempty"`
	Port            int    `json:"port,omitempty"`
	ListenAddr      string `json:"listen_addr,omitempty"`
	DefaultObserver string `json:"default_observer,omitempty"`
}
