package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/calder-ross/almagest/internal/controllers/restserver"
	"github.com/calder-ross/almagest/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, provider config.ConfigProvider, svc restserver.Services, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:         ctx,
		wg:          wg,
		provider:    provider,
		services:    svc,
		logger:      logger,
		controllers: make([]Controller, 0),
	}

	controllers, err := provider.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("could not load controller configuration: %v", err)
	}

	// Create controllers based on configuration
	for _, con := range controllers {
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	provider    config.ConfigProvider
	services    restserver.Services
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case "restserver", "rest":
		if cc.RESTServer == nil {
			return nil, fmt.Errorf("rest controller missing configuration")
		}
		return restserver.NewController(cm.ctx, cm.wg, cm.provider, *cc.RESTServer, cm.services, cm.logger)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}
