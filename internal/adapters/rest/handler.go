// Package rest serves analyses over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"sync"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

// Analyzer runs one song analysis.
type Analyzer interface {
	Analyze(ctx context.Context, title, artist string) (domain.Analysis, error)
}

// AnalysisStore reads saved analyses.
type AnalysisStore interface {
	GetAnalysis(ctx context.Context, id string) (domain.Analysis, error)
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    Analyzer
	store  AnalysisStore
	router *http.ServeMux

	// models load per analysis, so analyses run one at a time
	mu sync.Mutex
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc Analyzer, store AnalysisStore) *Handler {
	h := &Handler{
		svc:    svc,
		store:  store,
		router: http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /analyses", h.CreateAnalysis)
	h.router.HandleFunc("GET /analyses/{id}", h.GetAnalysis)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
