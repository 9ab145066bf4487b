package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/internal/storage"
	"github.com/calder-ross/almagest/internal/types"
	"github.com/calder-ross/almagest/pkg/config"
)

// StorageManager holds our active storage backends
type StorageManager struct {
	Engines          []StorageEngine
	EventDistributor chan types.EventRecord
}

// StorageEngine holds a backend storage engine's interface as well as
// a channel for passing events to the engine
type StorageEngine struct {
	Engine storage.StorageEngineInterface
	C      chan<- types.EventRecord
}

// NewStorageManager creates a StorageManager object, populated with all configured StorageEngines
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, provider config.ConfigProvider) (*StorageManager, error) {
	s := StorageManager{}

	// Initialize our channel for passing events to the distributor
	s.EventDistributor = make(chan types.EventRecord, 20)

	// Start our event distributor to fan received events out to storage
	// backends
	go s.startEventDistributor(ctx, wg)

	storageConfig, err := provider.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load storage configuration: %v", err)
	}

	// Check the configuration for supported storage backends and enable
	// them if found

	if storageConfig.SQLite != nil && storageConfig.SQLite.Path != "" {
		engine, err := storage.NewSQLiteStorage(ctx, storageConfig.SQLite.Path)
		if err != nil {
			return &s, fmt.Errorf("could not add SQLite storage backend: %v", err)
		}
		s.AddEngine(ctx, wg, engine)
	}

	if storageConfig.TimescaleDB != nil && storageConfig.TimescaleDB.ConnectionString != "" {
		engine, err := storage.NewTimescaleDBStorage(ctx, storageConfig.TimescaleDB.ConnectionString)
		if err != nil {
			return &s, fmt.Errorf("could not add TimescaleDB storage backend: %v", err)
		}
		s.AddEngine(ctx, wg, engine)
	}

	return &s, nil
}

// AddEngine starts a storage engine and registers its intake channel
func (s *StorageManager) AddEngine(ctx context.Context, wg *sync.WaitGroup, engine storage.StorageEngineInterface) {
	se := StorageEngine{Engine: engine}
	se.C = se.Engine.StartStorageEngine(ctx, wg)
	s.Engines = append(s.Engines, se)
}

// startEventDistributor receives events from the distributor channel and
// fans them out to all configured storage backends
func (s *StorageManager) startEventDistributor(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case ev := <-s.EventDistributor:
			for _, engine := range s.Engines {
				engine.C <- ev
			}
		case <-ctx.Done():
			log.Info("cancellation request received, cancelling event distributor")
			return
		}
	}
}
