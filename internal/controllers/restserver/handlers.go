package restserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calder-ross/almagest/internal/constants"
	"github.com/calder-ross/almagest/pkg/chart"
	"github.com/calder-ross/almagest/pkg/horizon"
	"github.com/calder-ross/almagest/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter

	// Event scans are expensive, so computed horizons are cached per
	// observer. The window is anchored at the current UTC midnight and
	// that date is part of the cache key, so a long-running server
	// rescans each day instead of serving an ever-older window.
	mu     sync.Mutex
	events map[string][]horizon.Event
	now    func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
		events:     make(map[string][]horizon.Event),
		now:        time.Now,
	}
}

// GetChart computes a chart snapshot for an observer at a moment.
// Query parameters: observer, time (RFC3339, default now), and lat/lon
// and orb overrides, all optional.
func (h *Handlers) GetChart(w http.ResponseWriter, req *http.Request) {
	obs, ok := h.controller.observerFor(req)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, "no such observer")
		return
	}

	t := time.Now().UTC()
	if ts := req.URL.Query().Get("time"); ts != "" {
		var err error
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid time: %v", err))
			return
		}
	}

	orb := chart.DefaultMaxOrb
	if h.controller.services.AspectOrb > 0 {
		orb = h.controller.services.AspectOrb
	}
	if s := req.URL.Query().Get("orb"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid orb")
			return
		}
		orb = v
	}

	loc := chart.Location{Latitude: obs.Latitude, Longitude: obs.Longitude}
	if s := req.URL.Query().Get("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid lat")
			return
		}
		loc.Latitude = v
	}
	if s := req.URL.Query().Get("lon"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid lon")
			return
		}
		loc.Longitude = v
	}
	snap, err := chart.ComputeWithOrb(h.controller.services.Ephemeris, t, loc, orb)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadGateway, fmt.Sprintf("chart computation failed: %v", err))
		return
	}

	h.formatter.WriteResponse(w, req, snap, nil)
}

// GetEvents returns the event horizon for an observer
func (h *Handlers) GetEvents(w http.ResponseWriter, req *http.Request) {
	events, status, errMsg := h.eventsFor(req)
	if errMsg != "" {
		h.formatter.WriteError(w, req, status, errMsg)
		return
	}
	h.formatter.WriteResponse(w, req, events, nil)
}

// GetNextEvent returns the first event strictly after the given instant.
// Query parameters: observer (optional), after (RFC3339, default now).
func (h *Handlers) GetNextEvent(w http.ResponseWriter, req *http.Request) {
	events, status, errMsg := h.eventsFor(req)
	if errMsg != "" {
		h.formatter.WriteError(w, req, status, errMsg)
		return
	}

	after := time.Now().UTC()
	if ts := req.URL.Query().Get("after"); ts != "" {
		var err error
		after, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid after: %v", err))
			return
		}
	}

	ev, ok := horizon.NextMajorEvent(events, after)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, "no events after the given time")
		return
	}
	h.formatter.WriteResponse(w, req, ev, nil)
}

// SearchEvents filters the event horizon by a free-text query.
// Query parameters: observer (optional), q.
func (h *Handlers) SearchEvents(w http.ResponseWriter, req *http.Request) {
	events, status, errMsg := h.eventsFor(req)
	if errMsg != "" {
		h.formatter.WriteError(w, req, status, errMsg)
		return
	}
	matched := horizon.Search(events, req.URL.Query().Get("q"))
	h.formatter.WriteResponse(w, req, matched, nil)
}

// GetHealth reports service liveness and version
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{
		"status":  "ok",
		"version": constants.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

// eventsFor returns the cached horizon for the request's observer,
// computing it on first use. A years query parameter overrides the
// configured horizon length. A non-empty message (with its HTTP status)
// is returned when the request is invalid.
func (h *Handlers) eventsFor(req *http.Request) ([]horizon.Event, int, string) {
	obs, ok := h.controller.observerFor(req)
	if !ok {
		return nil, http.StatusNotFound, "no such observer"
	}

	years := h.controller.services.Years
	if years <= 0 {
		years = horizon.DefaultYears
	}
	if s := req.URL.Query().Get("years"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return nil, http.StatusBadRequest, "invalid years"
		}
		years = v
	}

	start := h.now().UTC().Truncate(24 * time.Hour)
	key := fmt.Sprintf("%s|%d|%s", obs.Name, years, start.Format("2006-01-02"))

	h.mu.Lock()
	defer h.mu.Unlock()

	if events, ok := h.events[key]; ok {
		return events, 0, ""
	}

	events := h.controller.services.Horizon.Compute(start, horizon.Observer{
		Latitude:  obs.Latitude,
		Longitude: obs.Longitude,
	}, years)

	// Drop scans anchored at older days so the cache never holds more
	// than one day's worth of windows.
	suffix := "|" + start.Format("2006-01-02")
	for k := range h.events {
		if !strings.HasSuffix(k, suffix) {
			delete(h.events, k)
		}
	}

	h.events[key] = events
	return events, 0, ""
}
