// Package api serves the records, sellers and customers endpoints from a
// dataset, using the same executor as local mode.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/dataset"
	"github.com/syntrixbase/salesgrid/internal/lookup"
)

// Registrar is where routes are mounted. *http.ServeMux and server.Service satisfy it.
type Registrar interface {
	RegisterHTTPHandler(pattern string, handler http.Handler)
}

// Server answers API requests over one dataset.
type Server struct {
	dataset   *dataset.Dataset
	executor  *data.Executor
	sellers   *lookup.Index
	customers *lookup.Index
	logger    *slog.Logger
}

// NewServer decodes the reference collections once and prepares the executor.
func NewServer(ds *dataset.Dataset, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	exec, err := data.NewExecutor(ds.Records)
	if err != nil {
		return nil, err
	}
	sellers, err := ds.Index(dataset.Sellers)
	if err != nil {
		return nil, err
	}
	customers, err := ds.Index(dataset.Customers)
	if err != nil {
		return nil, err
	}
	return &Server{
		dataset:   ds,
		executor:  exec,
		sellers:   sellers,
		customers: customers,
		logger:    logger.With("component", "api"),
	}, nil
}

// Routes mounts every endpoint.
func (s *Server) Routes(r Registrar) {
	r.RegisterHTTPHandler("GET /records", http.HandlerFunc(s.handleRecords))
	r.RegisterHTTPHandler("GET /sellers", s.reference(dataset.Sellers))
	r.RegisterHTTPHandler("GET /customers", s.reference(dataset.Customers))
	r.RegisterHTTPHandler("GET /health", http.HandlerFunc(s.handleHealth))
	r.RegisterHTTPHandler("GET /metrics", promhttp.Handler())
}

// Mux returns a standalone mux with every endpoint mounted.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	s.Routes(muxRegistrar{mux})
	return mux
}

type muxRegistrar struct{ *http.ServeMux }

func (m muxRegistrar) RegisterHTTPHandler(pattern string, h http.Handler) { m.Handle(pattern, h) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"records": len(s.dataset.Records),
	})
}
