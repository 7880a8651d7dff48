package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/routes", s.handleRoutes)
	r.Get("/routes/match", s.handleMatch)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.hub.HandleWebSocket)

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	result, err := s.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	if result == nil {
		writeJSON(w, http.StatusServiceUnavailable, Message{Type: MessageError, Error: "routes not resolved yet"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// matchNode is the summary of one matched route.
type matchNode struct {
	Path      string `json:"path"`
	Exact     bool   `json:"exact"`
	Component string `json:"component"`
}

type matchResponse struct {
	Path   string            `json:"path"`
	Chain  []matchNode       `json:"chain"`
	Params map[string]string `json:"params"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, Message{Type: MessageError, Error: `missing "path" query parameter`})
		return
	}

	result, err := s.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	if result == nil {
		writeJSON(w, http.StatusServiceUnavailable, Message{Type: MessageError, Error: "routes not resolved yet"})
		return
	}

	m, ok := routes.Match(result.Routes, path)
	if !ok {
		writeJSON(w, http.StatusNotFound, Message{Type: MessageError, Code: "E130", Error: "no route matches " + path})
		return
	}

	resp := matchResponse{Path: path, Chain: make([]matchNode, 0, len(m.Chain)), Params: m.Params}
	for _, n := range m.Chain {
		resp.Chain = append(resp.Chain, matchNode{Path: n.Path, Exact: n.Exact, Component: n.Component})
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status  string        `json:"status"`
	Source  routes.Source `json:"source,omitempty"`
	Routes  int           `json:"routes"`
	Clients int           `json:"clients"`
	Error   string        `json:"error,omitempty"`
	Updated *time.Time    `json:"updated,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	result, err, updated := s.result, s.err, s.updated
	s.mu.RUnlock()

	resp := healthResponse{Status: "ok", Clients: s.hub.ClientCount()}
	if !updated.IsZero() {
		resp.Updated = &updated
	}
	switch {
	case err != nil:
		resp.Status = "error"
		resp.Error = err.Error()
	case result != nil:
		resp.Source = result.Source
		resp.Routes = routes.Count(result.Routes)
	default:
		resp.Status = "starting"
	}
	writeJSON(w, http.StatusOK, resp)
}
