// Package api exposes the firefighter simulator over HTTP: simulations are
// created and queried as JSON resources, finished runs can be replayed over
// a websocket, and the Prometheus surface hangs off /metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/emberworks/firefighter-simulator/internal/config"
	"github.com/emberworks/firefighter-simulator/internal/logging"
	"github.com/emberworks/firefighter-simulator/internal/observability"
	"github.com/emberworks/firefighter-simulator/internal/sim"
	"github.com/emberworks/firefighter-simulator/internal/sim/strategy"
	"github.com/emberworks/firefighter-simulator/model"
)

// Server holds the HTTP API state.
type Server struct {
	cfg      config.ServerConfig
	catalog  *config.Catalog
	graphs   *GraphSet
	registry *sim.Registry

	log         logging.Logger
	httpMetrics *observability.HTTPCollector
	simMetrics  *observability.SimulationCollector
}

// NewServer wires the API server. The collectors may be nil; a nil logger
// drops all logs.
func NewServer(cfg config.ServerConfig, catalog *config.Catalog, log logging.Logger,
	httpMetrics *observability.HTTPCollector, simMetrics *observability.SimulationCollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{
		cfg:         cfg,
		catalog:     catalog,
		graphs:      NewGraphSet(catalog, cfg.CacheSize, simMetrics),
		registry:    sim.NewRegistry(),
		log:         log,
		httpMetrics: httpMetrics,
		simMetrics:  simMetrics,
	}
}

// Handler builds the full route table, wrapped in request logging and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/graphs", s.handleListGraphs)
	mux.HandleFunc("GET /api/presets", s.handleListPresets)
	mux.HandleFunc("GET /api/strategies", s.handleListStrategies)
	mux.HandleFunc("POST /api/simulations", s.handleCreateSimulation)
	mux.HandleFunc("GET /api/simulations/{id}", s.handleGetSimulation)
	mux.HandleFunc("DELETE /api/simulations/{id}", s.handleDeleteSimulation)
	mux.HandleFunc("GET /api/simulations/{id}/steps/{time}", s.handleGetStep)
	mux.HandleFunc("GET /api/simulations/{id}/playback", s.handlePlayback)
	if s.httpMetrics != nil {
		mux.Handle("GET /metrics", s.httpMetrics.Handler())
	}

	var handler http.Handler = mux
	if s.httpMetrics != nil {
		handler = s.httpMetrics.Middleware(handler)
	}
	return s.requestLogging(handler)
}

// requestLogging annotates every request context with a request-scoped
// logger and emits one line per request.
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqLog := logging.WithRequestLogger(r.Context(), s.log)
		ctx = logging.ContextWithLogger(ctx, reqLog)
		reqLog.Debug(ctx, "request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": s.graphs.Names()})
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets := s.catalog.Presets
	if presets == nil {
		presets = map[string]model.Settings{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"strategies": strategy.Names()})
}

// simulationRequest either names a catalog preset or carries inline
// settings.
type simulationRequest struct {
	Preset string `json:"preset"`
	model.Settings
}

// simulationResponse is the created-simulation payload.
type simulationResponse struct {
	ID       string         `json:"id"`
	Settings model.Settings `json:"settings"`
	Roots    []int          `json:"roots"`
	Summary  sim.Summary    `json:"summary"`
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.requestLogger(ctx)

	var req simulationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	settings := req.Settings
	if req.Preset != "" {
		preset, err := s.catalog.Preset(req.Preset)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		settings = preset
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	graph, paths, err := s.graphs.Get(settings.GraphName)
	if err != nil {
		if errors.Is(err, config.ErrUnknownGraph) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error(ctx, "graph load failed", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "graph could not be loaded")
		return
	}

	strat, err := strategy.New(settings.StrategyName, paths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine, err := sim.New(graph, settings, strat,
		sim.WithLogger(log), sim.WithRecorder(s.simMetrics))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.simMetrics != nil {
		s.simMetrics.SimulationStarted(settings.StrategyName)
	}

	ctx, span := otel.Tracer("firefighter-api").Start(ctx, "simulation.run")
	span.SetAttributes(
		attribute.String("graph", settings.GraphName),
		attribute.String("strategy", settings.StrategyName),
	)
	defer span.End()

	if err := engine.Simulate(ctx); err != nil {
		log.Warn(ctx, "simulation aborted", logging.Err(err))
		writeError(w, http.StatusServiceUnavailable, "simulation aborted")
		return
	}

	id := s.registry.Add(engine)
	if s.simMetrics != nil {
		s.simMetrics.SetRegisteredSimulations(s.registry.Len())
	}
	log.Info(ctx, "simulation created",
		logging.String("simulation_id", id.String()),
		logging.String("strategy", settings.StrategyName),
		logging.Uint64("end_time", uint64(engine.Time())))

	writeJSON(w, http.StatusCreated, simulationResponse{
		ID:       id.String(),
		Settings: settings,
		Roots:    engine.Roots(),
		Summary:  engine.Summary(),
	})
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := s.lookupSimulation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, simulationResponse{
		ID:       id.String(),
		Settings: engine.Settings(),
		Roots:    engine.Roots(),
		Summary:  engine.Summary(),
	})
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed simulation id")
		return
	}
	if !s.registry.Remove(id) {
		writeError(w, http.StatusNotFound, "no such simulation")
		return
	}
	if s.simMetrics != nil {
		s.simMetrics.SetRegisteredSimulations(s.registry.Len())
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetStep(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := s.lookupSimulation(w, r)
	if !ok {
		return
	}

	t, err := strconv.ParseUint(r.PathValue("time"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed step time")
		return
	}
	if model.TimeUnit(t) > engine.Time() {
		writeError(w, http.StatusNotFound, "step time beyond end of simulation")
		return
	}

	writeJSON(w, http.StatusOK, engine.StepMetadata(model.TimeUnit(t)))
}

// lookupSimulation resolves the {id} path value, writing the error response
// itself when the id is malformed or unknown.
func (s *Server) lookupSimulation(w http.ResponseWriter, r *http.Request) (*sim.Engine, uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed simulation id")
		return nil, uuid.Nil, false
	}
	engine, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such simulation")
		return nil, uuid.Nil, false
	}
	return engine, id, true
}

func (s *Server) requestLogger(ctx context.Context) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.log
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
