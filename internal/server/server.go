package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/pageroutes/internal/config"
	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/internal/metrics"
	"github.com/vango-dev/pageroutes/internal/watch"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

// Options configures the development server.
type Options struct {
	// Config is the loaded project configuration.
	Config *config.Config

	// Logger is used for server logs. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry collects the server metrics and backs /metrics.
	// If nil, a fresh registry is created.
	Registry *prometheus.Registry

	// Tracer overrides the global OpenTelemetry tracer for resolutions.
	Tracer trace.Tracer

	// OnResolve is called after every resolution.
	OnResolve func(result *routes.Result, err error)
}

// Server is the development route server.
type Server struct {
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Collector
	tracer    trace.Tracer
	onResolve func(*routes.Result, error)
	hub       *Hub
	watcher   *watch.Watcher
	changeCh  chan []watch.Change

	mu      sync.RWMutex
	cfg     *config.Config
	cfgErr  error
	result  *routes.Result
	err     error
	updated time.Time
}

// New creates a development server for the project described by opts.Config.
func New(opts Options) *Server {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		logger:    logger,
		registry:  registry,
		metrics:   metrics.New(metrics.WithRegistry(registry)),
		tracer:    opts.Tracer,
		onResolve: opts.OnResolve,
		cfg:       cfg,
		changeCh:  make(chan []watch.Change, 16),
	}

	s.hub = NewHub(logger, s.currentMessage)
	s.hub.onCount = s.metrics.SetClients

	s.watcher = watch.New(watch.Config{
		Paths:    watch.CollectPaths(cfg),
		Ignore:   watchIgnore(cfg),
		Interval: cfg.WatchInterval(),
		Classify: watch.ClassifierFor(cfg).Classify,
	})
	s.watcher.OnChange(func(changes []watch.Change) {
		select {
		case s.changeCh <- changes:
		default:
			s.logger.Warn("change queue full, dropping batch", "changes", len(changes))
		}
	})

	return s
}

func watchIgnore(cfg *config.Config) []string {
	return slices.Concat(watch.DefaultIgnore, cfg.Dev.Ignore)
}

// Config returns the configuration currently in effect.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Snapshot returns the last resolution. Exactly one of the results is
// non-nil once Refresh has run. While pageroutes.json fails to reload, the
// error is that failure.
func (s *Server) Snapshot() (*routes.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Refresh resolves the route table, publishes it and notifies clients.
// A failed resolution replaces the published table with the error. Nothing
// is resolved while the last reload of pageroutes.json failed; that error
// is published instead.
func (s *Server) Refresh(ctx context.Context) error {
	s.mu.RLock()
	cfg, cfgErr := s.cfg, s.cfgErr
	s.mu.RUnlock()

	if cfgErr != nil {
		s.logger.Error("configuration invalid, routes not resolved", "file", cfg.Path(), "error", cfgErr)
		s.publish(nil, cfgErr)
		return cfgErr
	}

	opts := cfg.RouteOptions()
	opts.Tracer = s.tracer

	start := time.Now()
	result, err := routes.Resolve(ctx, cfg.RoutePaths(), opts)
	elapsed := time.Since(start)
	s.metrics.ObserveResolve(result, elapsed, err)

	if err != nil {
		result = nil
		s.logger.Error("resolve routes", "error", err)
	} else {
		s.logger.Info("routes resolved",
			"source", result.Source,
			"routes", routes.Count(result.Routes),
			"duration", elapsed.Round(time.Microsecond))
	}

	s.publish(result, err)
	return err
}

// publish stores a resolution and pushes it to clients.
func (s *Server) publish(result *routes.Result, err error) {
	s.mu.Lock()
	s.result, s.err = result, err
	s.updated = time.Now()
	s.mu.Unlock()

	msg := s.currentMessage()
	s.hub.Broadcast(msg)
	s.metrics.MessageSent(string(msg.Type))

	if s.onResolve != nil {
		s.onResolve(result, err)
	}
}

// currentMessage describes the published state for WebSocket clients.
func (s *Server) currentMessage() Message {
	result, err := s.Snapshot()
	if err != nil {
		return errorMessage(err)
	}
	if result == nil {
		return Message{Type: MessageRoutes}
	}
	return Message{Type: MessageRoutes, Source: result.Source, Routes: result.Routes}
}

func errorMessage(err error) Message {
	msg := Message{Type: MessageError, Error: err.Error()}
	var coded *errors.Error
	if stderrors.As(errors.FromRoutes(err), &coded) {
		msg.Code = coded.Code
	}
	return msg
}

// HandleChanges reacts to one batch of watcher changes. A change to
// pageroutes.json reloads the configuration before re-resolving.
func (s *Server) HandleChanges(ctx context.Context, changes []watch.Change) {
	reloadConfig := false
	for _, c := range changes {
		s.metrics.ObserveChange(c.Type.String())
		s.logger.Debug("file changed", "path", c.Path, "op", c.Op, "type", c.Type)
		if c.Type == watch.ChangeProjectConfig {
			reloadConfig = true
		}
	}
	if !watch.AffectsRoutes(changes) {
		return
	}
	s.logger.Info("files changed", "count", len(changes), "types", watch.Summarize(changes))

	if reloadConfig {
		if err := s.reloadConfig(); err != nil {
			s.logger.Error("reload config", "error", err)
			s.mu.Lock()
			s.cfgErr = err
			s.mu.Unlock()
		}
	}

	s.Refresh(ctx)
}

// reloadConfig re-reads pageroutes.json and points the watcher at the paths,
// ignore patterns and conventions of the new configuration.
func (s *Server) reloadConfig() error {
	old := s.Config()
	cfg, err := config.LoadFile(old.Path())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PagesPath() != old.PagesPath() {
		s.logger.Info("pages directory changed", "old", old.PagesPath(), "new", cfg.PagesPath())
	}
	if cfg.DevAddress() != old.DevAddress() || cfg.WatchInterval() != old.WatchInterval() {
		s.logger.Warn("dev address and watch interval changes apply after a restart")
	}

	s.mu.Lock()
	s.cfg = cfg
	s.cfgErr = nil
	s.mu.Unlock()

	s.watcher.Reconfigure(watch.CollectPaths(cfg), watchIgnore(cfg), watch.ClassifierFor(cfg).Classify)
	s.logger.Info("configuration reloaded", "file", cfg.Path())
	return nil
}

// processChanges serializes change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-s.changeCh:
			changes := slices.Clone(batch)
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next...)
				default:
					draining = false
				}
			}
			s.HandleChanges(ctx, changes)
		}
	}
}

// Run resolves the table once, then serves HTTP on ln while the watcher runs.
// It returns when ctx is cancelled or a component fails. If ln is nil the
// server listens on the configured dev address.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.Config().DevAddress())
		if err != nil {
			return err
		}
	}

	// The initial error is published to clients, not returned.
	_ = s.Refresh(ctx)

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.watcher.Start(ctx)
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return s.processChanges(ctx)
	})

	g.Go(func() error {
		s.logger.Info("dev server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.watcher.Stop()
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
