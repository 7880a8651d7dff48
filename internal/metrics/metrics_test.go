package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserveResolve(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))

	result := &routes.Result{
		Source: routes.SourcePagesDir,
		Routes: []*routes.RouteNode{
			{Path: "/", Exact: true},
			{Path: "/users", Routes: []*routes.RouteNode{{Path: "/users/", Exact: true}}},
		},
	}
	c.ObserveResolve(result, 3*time.Millisecond, nil)
	c.ObserveResolve(nil, time.Millisecond, &routes.RouteConflictError{Path: "/a"})

	if got := counterValue(t, c.resolvesTotal.WithLabelValues("pages", "success")); got != 1 {
		t.Errorf("resolves_total(pages, success) = %v, want 1", got)
	}
	if got := counterValue(t, c.resolvesTotal.WithLabelValues("none", "error")); got != 1 {
		t.Errorf("resolves_total(none, error) = %v, want 1", got)
	}
	if got := counterValue(t, c.resolveErrors.WithLabelValues("conflict")); got != 1 {
		t.Errorf("resolve_errors_total(conflict) = %v, want 1", got)
	}
	if got := gaugeValue(t, c.routes); got != 3 {
		t.Errorf("routes = %v, want 3", got)
	}
	if got := histogramCount(t, c.resolveDuration.WithLabelValues("pages")); got != 1 {
		t.Errorf("resolve_duration_seconds(pages) count = %v, want 1", got)
	}
}

func TestWebsocketMetrics(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	c.SetClients(2)
	c.MessageSent("routes")
	c.MessageSent("routes")
	c.ObserveChange("page")

	if got := gaugeValue(t, c.wsClients); got != 2 {
		t.Errorf("websocket_clients = %v, want 2", got)
	}
	if got := counterValue(t, c.wsMessages.WithLabelValues("routes")); got != 2 {
		t.Errorf("websocket_messages_total(routes) = %v, want 2", got)
	}
	if got := counterValue(t, c.changesTotal.WithLabelValues("page")); got != 1 {
		t.Errorf("file_changes_total(page) = %v, want 1", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveResolve(nil, 0, errors.New("boom"))
	c.ObserveChange("page")
	c.SetClients(1)
	c.MessageSent("error")
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&routes.RouteConflictError{}, "conflict"},
		{fmt.Errorf("wrapped: %w", &routes.VariablePathExportError{Path: "/:id"}), "export"},
		{&routes.RoutesConfigError{File: "_routes.json"}, "routes_config"},
		{&routes.MultiValidationError{}, "validation"},
		{errors.New("permission denied"), "io"},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
