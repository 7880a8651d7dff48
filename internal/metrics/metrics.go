// Package metrics exposes Prometheus collectors for route resolution and the
// dev server.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "pageroutes").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "pageroutes",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics.
type Collector struct {
	resolvesTotal   *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	resolveErrors   *prometheus.CounterVec
	routes          prometheus.Gauge
	changesTotal    *prometheus.CounterVec
	wsClients       prometheus.Gauge
	wsMessages      *prometheus.CounterVec
}

// New registers the collectors. Registering twice on the same registry
// panics, so tests should pass their own registry.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		resolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolves_total",
			Help:        "Total number of route table resolutions",
			ConstLabels: config.ConstLabels,
		}, []string{"source", "status"}),

		resolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Route table resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"source"}),

		resolveErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_errors_total",
			Help:        "Total number of failed resolutions by error kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of route nodes in the current table",
			ConstLabels: config.ConstLabels,
		}),

		changesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "file_changes_total",
			Help:        "Total number of detected file changes by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_clients",
			Help:        "Number of connected websocket clients",
			ConstLabels: config.ConstLabels,
		}),

		wsMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_messages_total",
			Help:        "Total number of websocket messages broadcast",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ObserveResolve records one call to routes.Resolve.
func (c *Collector) ObserveResolve(result *routes.Result, d time.Duration, err error) {
	if c == nil {
		return
	}
	source := "none"
	if result != nil {
		source = string(result.Source)
	}
	c.resolveDuration.WithLabelValues(source).Observe(d.Seconds())

	if err != nil {
		c.resolvesTotal.WithLabelValues(source, "error").Inc()
		c.resolveErrors.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	c.resolvesTotal.WithLabelValues(source, "success").Inc()
	c.routes.Set(float64(routes.Count(result.Routes)))
}

// ObserveChange records one detected file change.
func (c *Collector) ObserveChange(changeType string) {
	if c == nil {
		return
	}
	c.changesTotal.WithLabelValues(changeType).Inc()
}

// SetClients records the number of websocket clients.
func (c *Collector) SetClients(n int) {
	if c == nil {
		return
	}
	c.wsClients.Set(float64(n))
}

// MessageSent records a websocket broadcast.
func (c *Collector) MessageSent(msgType string) {
	if c == nil {
		return
	}
	c.wsMessages.WithLabelValues(msgType).Inc()
}

// ErrorKind returns the metric label for a resolution error.
func ErrorKind(err error) string {
	var conflict *routes.RouteConflictError
	var export *routes.VariablePathExportError
	var cfg *routes.RoutesConfigError
	var validation *routes.MultiValidationError
	switch {
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &export):
		return "export"
	case errors.As(err, &cfg):
		return "routes_config"
	case errors.As(err, &validation):
		return "validation"
	}
	return "io"
}
