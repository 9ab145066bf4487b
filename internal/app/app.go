// Package app wires configuration, storage, engines and controllers into
// a running service.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/calder-ross/almagest/internal/controllers/restserver"
	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/internal/managers"
	"github.com/calder-ross/almagest/internal/types"
	"github.com/calder-ross/almagest/pkg/config"
	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/horizon"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	eph := ephemeris.NewMeeus()
	engine := horizon.New(eph, horizon.Options{
		InnerStationStep: cfg.Horizon.InnerStationStep,
		OuterStationStep: cfg.Horizon.OuterStationStep,
		ConjunctionStep:  cfg.Horizon.ConjunctionStep,
		ConjunctionGate:  cfg.Horizon.ConjunctionGate,
	})

	// Initialize the storage manager
	storageManager, err := managers.NewStorageManager(ctx, &wg, a.configProvider)
	if err != nil {
		return err
	}

	// Archive a fresh event horizon for every observer on startup
	if len(storageManager.Engines) > 0 {
		go a.archiveHorizons(ctx, cfg, engine, storageManager.EventDistributor)
	}

	// Initialize the controller manager
	svc := restserver.Services{
		Ephemeris: eph,
		Horizon:   engine,
		Years:     cfg.Horizon.Years,
		AspectOrb: cfg.Horizon.AspectOrb,
	}
	cm, err := managers.NewControllerManager(ctx, &wg, a.configProvider, svc, a.logger)
	if err != nil {
		return err
	}
	err = cm.StartControllers()
	if err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// archiveHorizons runs one event scan per configured observer and sends
// the results to the storage distributor
func (a *App) archiveHorizons(ctx context.Context, cfg *config.ConfigData, engine *horizon.Engine, dist chan<- types.EventRecord) {
	years := cfg.Horizon.Years
	if years <= 0 {
		years = horizon.DefaultYears
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)

	for _, obs := range cfg.Observers {
		events := engine.Compute(start, horizon.Observer{
			Latitude:  obs.Latitude,
			Longitude: obs.Longitude,
		}, years)
		log.Infof("archiving %d events for observer %s", len(events), obs.Name)

		for _, ev := range events {
			select {
			case dist <- types.NewEventRecord(obs.Name, ev):
			case <-ctx.Done():
				return
			}
		}
	}
}
