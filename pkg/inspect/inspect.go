package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loom-ui/loom/pkg/reactive"
)

// ErrSnapshotTimeout is returned when the host loop does not execute a
// dispatched snapshot read within Config.SnapshotTimeout.
var ErrSnapshotTimeout = errors.New("inspect: snapshot timed out")

// maxRowPage bounds how many rows one /api/models/{name} request returns.
const maxRowPage = 1000

// Server is the HTTP/WebSocket introspection server for one graph.
//
// The graph itself is single-goroutine; every read the server performs is
// posted through Config.Dispatch onto the goroutine that owns it. The server
// holds no reactive state of its own and can be started and stopped
// independently of the graph's lifetime.
type Server struct {
	graph  *reactive.Graph
	config *Config
	logger *slog.Logger

	// Registered surfaces
	mu        sync.RWMutex
	models    map[string]RowSource
	repeaters map[string]RepeaterSource

	// Live event stream
	stream *stream

	// HTTP
	router     chi.Router
	httpServer *http.Server
}

// New creates an inspector for g with the given configuration.
func New(g *reactive.Graph, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.Address == "" {
			config.Address = defaults.Address
		}
		if config.SnapshotTimeout == 0 {
			config.SnapshotTimeout = defaults.SnapshotTimeout
		}
		if config.TracerName == "" {
			config.TracerName = defaults.TracerName
		}
		if config.Gatherer == nil {
			config.Gatherer = defaults.Gatherer
		}
		if config.StreamBuffer == 0 {
			config.StreamBuffer = defaults.StreamBuffer
		}
		if config.ReadBufferSize == 0 {
			config.ReadBufferSize = defaults.ReadBufferSize
		}
		if config.WriteBufferSize == 0 {
			config.WriteBufferSize = defaults.WriteBufferSize
		}
		if config.CheckOrigin == nil {
			config.CheckOrigin = defaults.CheckOrigin
		}
		if config.WriteTimeout == 0 {
			config.WriteTimeout = defaults.WriteTimeout
		}
		if config.PingInterval == 0 {
			config.PingInterval = defaults.PingInterval
		}
		if config.PongWait == 0 {
			config.PongWait = defaults.PongWait
		}
		if config.ReadHeaderTimeout == 0 {
			config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
		}
		if config.ShutdownTimeout == 0 {
			config.ShutdownTimeout = defaults.ShutdownTimeout
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "inspect")
	}

	s := &Server{
		graph:     g,
		config:    config,
		logger:    logger,
		models:    make(map[string]RowSource),
		repeaters: make(map[string]RepeaterSource),
	}
	s.stream = newStream(s)
	s.router = s.routes()
	return s
}

// RegisterModel exposes a model under name on the /api/models endpoints.
// Registering the same name again replaces the previous source.
func (s *Server) RegisterModel(name string, src RowSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[name] = src
}

// RegisterRepeater exposes a repeater's statistics under name.
func (s *Server) RegisterRepeater(name string, rep RepeaterSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeaters[name] = rep
}

// Handler returns the inspector's http.Handler for mounting in an external
// router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(tracing(s.config.TracerName))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/models", s.handleModels)
	r.Get("/api/models/{name}", s.handleModelRows)
	r.Get("/api/repeaters", s.handleRepeaters)
	r.Get("/ws", s.handleStream)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))

	return r
}

// call runs fn on the goroutine that owns the graph and waits for it.
// Without a dispatch bridge fn runs inline.
func (s *Server) call(ctx context.Context, fn func()) error {
	if s.config.Dispatch == nil {
		fn()
		return nil
	}
	done := make(chan struct{})
	s.config.Dispatch(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrSnapshotTimeout, ctx.Err())
	}
}

// snapshot is call bounded by the configured snapshot timeout.
func (s *Server) snapshot(r *http.Request, fn func()) error {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.SnapshotTimeout)
	defer cancel()
	return s.call(ctx, fn)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var stats reactive.Stats
	if err := s.snapshot(r, func() {
		stats = s.graph.Stats()
	}); err != nil {
		s.logger.Warn("graph snapshot failed", "error", err)
		http.Error(w, "snapshot timed out", http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, graphSnapshot{
		Evaluations:      stats.Evaluations,
		DirtyMarks:       stats.DirtyMarks,
		LinksCreated:     stats.LinksCreated,
		LinksReleased:    stats.LinksReleased,
		LiveLinks:        stats.LiveLinks,
		ActiveAnimations: stats.ActiveAnimations,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.models))
	sources := make([]RowSource, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sources = append(sources, s.models[name])
	}
	s.mu.RUnlock()

	summaries := make([]modelSummary, len(names))
	if err := s.snapshot(r, func() {
		for i, src := range sources {
			summaries[i] = modelSummary{Name: names[i], Rows: src.RowCount()}
		}
	}); err != nil {
		s.logger.Warn("model snapshot failed", "error", err)
		http.Error(w, "snapshot timed out", http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, summaries)
}

func (s *Server) handleModelRows(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.RLock()
	src, ok := s.models[name]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "unknown model", http.StatusNotFound)
		return
	}

	from, err := queryInt(r, "from", 0)
	if err != nil {
		http.Error(w, "bad from parameter", http.StatusBadRequest)
		return
	}
	count, err := queryInt(r, "count", maxRowPage)
	if err != nil {
		http.Error(w, "bad count parameter", http.StatusBadRequest)
		return
	}
	if from < 0 {
		from = 0
	}
	if count < 0 {
		count = 0
	}
	if count > maxRowPage {
		count = maxRowPage
	}

	page := modelRows{Name: name, From: from, Rows: []any{}}
	if err := s.snapshot(r, func() {
		page.Total = src.RowCount()
		for row := from; row < from+count && row < page.Total; row++ {
			v, ok := src.Row(row)
			if !ok {
				break
			}
			page.Rows = append(page.Rows, v)
		}
	}); err != nil {
		s.logger.Warn("row snapshot failed", "error", err, "model", name)
		http.Error(w, "snapshot timed out", http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, page)
}

func (s *Server) handleRepeaters(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.repeaters))
	for name := range s.repeaters {
		names = append(names, name)
	}
	sort.Strings(names)
	reps := make([]RepeaterSource, 0, len(names))
	for _, name := range names {
		reps = append(reps, s.repeaters[name])
	}
	s.mu.RUnlock()

	snapshots := make([]repeaterSnapshot, len(names))
	if err := s.snapshot(r, func() {
		for i, rep := range reps {
			st := rep.Stats()
			snapshots[i] = repeaterSnapshot{
				Name:      names[i],
				Created:   st.Created,
				Destroyed: st.Destroyed,
				Updated:   st.Updated,
				Reused:    st.Reused,
				Live:      st.Live,
			}
		}
	}); err != nil {
		s.logger.Warn("repeater snapshot failed", "error", err)
		http.Error(w, "snapshot timed out", http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, snapshots)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.stream.serveHTTP(w, r)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("inspector shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server. Stream subscribers are closed
// first so the event sink is removed from the graph before the listener
// stops.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.stream.closeAll(ctx)

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("inspector shutdown complete")
	return nil
}
