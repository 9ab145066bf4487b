package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Observers   []ObserverYAML   `yaml:"observers"`
		Horizon     HorizonYAML      `yaml:"horizon,omitempty"`
		Storage     StorageYAML      `yaml:"storage,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Observers:   make([]ObserverData, len(yamlConfig.Observers)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, obs := range yamlConfig.Observers {
		config.Observers[i] = ObserverData{
			Name:      obs.Name,
			Latitude:  obs.Latitude,
			Longitude: obs.Longitude,
			Altitude:  obs.Altitude,
			Timezone:  obs.Timezone,
		}
	}

	config.Horizon = HorizonData{
		Years:            yamlConfig.Horizon.Years,
		InnerStationStep: yamlConfig.Horizon.InnerStationStep,
		OuterStationStep: yamlConfig.Horizon.OuterStationStep,
		ConjunctionStep:  yamlConfig.Horizon.ConjunctionStep,
		ConjunctionGate:  yamlConfig.Horizon.ConjunctionGate,
		AspectOrb:        yamlConfig.Horizon.AspectOrb,
	}

	config.Storage = StorageData{}
	if yamlConfig.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteData{
			Path: yamlConfig.Storage.SQLite.Path,
		}
	}
	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:            controller.RESTServer.Cert,
				Key:             controller.RESTServer.Key,
				Port:            controller.RESTServer.Port,
				ListenAddr:      controller.RESTServer.ListenAddr,
				DefaultObserver: controller.RESTServer.DefaultObserver,
			}
		}
	}

	y.config = config
	return config, nil
}

// GetObservers returns observer configurations
func (y *YAMLProvider) GetObservers() ([]ObserverData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Observers, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type ObserverYAML struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude,omitempty"`
	Timezone  string  `yaml:"timezone,omitempty"`
}

type HorizonYAML struct {
	Years            int     `yaml:"years,omitempty"`
	InnerStationStep int     `yaml:"inner-station-step,omitempty"`
	OuterStationStep int     `yaml:"outer-station-step,omitempty"`
	ConjunctionStep  int     `yaml:"conjunction-step,omitempty"`
	ConjunctionGate  float64 `yaml:"conjunction-gate,omitempty"`
	AspectOrb        float64 `yaml:"aspect-orb,omitempty"`
}

type StorageYAML struct {
	SQLite      *SQLiteYAML      `yaml:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

type RESTServerYAML struct {
	Cert            string `yaml:"cert,omitempty"`
	Key             string `yaml:"key,omitempty"`
	Port            int    `yaml:"port,omitempty"`
	ListenAddr      string `yaml:"listen-addr,omitempty"`
	DefaultObserver string `yaml:"default-observer,omitempty"`
}
