// Package api exposes the index computation over HTTP.
//
// Routes:
//   - GET /health
//   - GET /api/v1/index?at=RFC3339&replay=N&step=M
//   - GET /api/v1/expiries
//
// Responses use a {data, meta} envelope. Degenerate computations (no
// quotes, one expiration, non-finite index) map to 422, bad parameters
// to 400.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/contactkeval/option-vix/internal/data"
	"github.com/contactkeval/option-vix/internal/engine"
)

// Server serves index computations from one quote source.
type Server struct {
	cfg *engine.Config
	src data.Source
}

func NewServer(cfg *engine.Config, src data.Source) *Server {
	return &Server{cfg: cfg, src: src}
}

type apiRoute struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

func (s *Server) routes() []apiRoute {
	return []apiRoute{
		{
			Path:    "/index",
			Method:  "GET",
			Handler: s.handleIndex,
		},
		{
			Path:    "/expiries",
			Method:  "GET",
			Handler: s.handleExpiries,
		},
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	for _, r := range s.routes() {
		api.HandleFunc(r.Path, r.Handler).Methods(r.Method)
	}
	return router
}

type apiResponse struct {
	Data  any      `json:"data,omitempty"`
	Meta  *apiMeta `json:"meta,omitempty"`
	Error string   `json:"error,omitempty"`
}

type apiMeta struct {
	Source string `json:"source"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Error: msg})
}
