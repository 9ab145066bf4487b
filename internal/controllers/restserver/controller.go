// Package restserver exposes charts and the event horizon over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/calder-ross/almagest/internal/log"
	"github.com/calder-ross/almagest/pkg/config"
	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/horizon"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Services bundles the computation engines the handlers serve from
type Services struct {
	Ephemeris ephemeris.Provider
	Horizon   *horizon.Engine
	// Years is the event horizon length served by the events endpoints
	Years int
	// AspectOrb overrides the chart aspect orb when non-zero
	AspectOrb float64
}

// Controller represents the REST server controller
type Controller struct {
	ctx             context.Context
	wg              *sync.WaitGroup
	configProvider  config.ConfigProvider
	restConfig      config.RESTServerData
	Server          http.Server
	Observers       map[string]config.ObserverData
	DefaultObserver string
	services        Services
	logger          *zap.SugaredLogger
	handlers        *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, rc config.RESTServerData, svc Services, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		restConfig:     rc,
		services:       svc,
		logger:         logger,
	}

	observers, err := configProvider.GetObservers()
	if err != nil {
		return nil, fmt.Errorf("error loading observers: %v", err)
	}
	if len(observers) == 0 {
		return nil, fmt.Errorf("no observers configured - at least one observer must be configured for the REST server")
	}

	ctrl.Observers = make(map[string]config.ObserverData)
	for _, obs := range observers {
		ctrl.Observers[obs.Name] = obs
	}

	// The configured default observer must exist; otherwise the first
	// configured observer serves requests that name none.
	ctrl.DefaultObserver = rc.DefaultObserver
	if ctrl.DefaultObserver == "" {
		ctrl.DefaultObserver = observers[0].Name
	}
	if _, ok := ctrl.Observers[ctrl.DefaultObserver]; !ok {
		return nil, fmt.Errorf("default observer does not exist: %s", ctrl.DefaultObserver)
	}

	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}
	ctrl.restConfig = rc

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/chart", c.handlers.GetChart)
	router.HandleFunc("/events", c.handlers.GetEvents)
	router.HandleFunc("/events/next", c.handlers.GetNextEvent)
	router.HandleFunc("/events/search", c.handlers.SearchEvents)
	router.HandleFunc("/health", c.handlers.GetHealth)

	return router
}

// observerFor resolves the observer query parameter, falling back to the
// default observer when absent. ok is false for an unknown name.
func (c *Controller) observerFor(req *http.Request) (config.ObserverData, bool) {
	name := req.URL.Query().Get("observer")
	if name == "" {
		name = c.DefaultObserver
	}
	obs, ok := c.Observers[name]
	return obs, ok
}
