package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
)

const (
	errCodeSongNotFound     = "SONG_NOT_FOUND"
	errCodeNoConfidentMatch = "NO_CONFIDENT_MATCH"
	errCodeNoFeatures       = "FEATURES_UNAVAILABLE"
)

type createAnalysisRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type scoresResponse struct {
	Lexicon float64 `json:"lexicon"`
	ModelA  float64 `json:"model_a"`
	ModelB  float64 `json:"model_b"`
	Mean    float64 `json:"mean"`
}

type analysisResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Artist      string         `json:"artist"`
	SongID      string         `json:"song_id"`
	Features    []float64      `json:"features"`
	Synthesized bool           `json:"synthesized"`
	Tempo       int            `json:"tempo"`
	Mode        int            `json:"mode"`
	Loudness    int            `json:"loudness"`
	Lyrics      scoresResponse `json:"lyrics"`
	Titles      scoresResponse `json:"title_scores"`
	Final       float64        `json:"final"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toResponse(a domain.Analysis) analysisResponse {
	return analysisResponse{
		ID:          a.ID,
		Title:       a.Title,
		Artist:      a.Artist,
		SongID:      a.SongID,
		Features:    a.Features,
		Synthesized: a.Synthesized,
		Tempo:       a.Tempo,
		Mode:        a.Mode,
		Loudness:    a.Loudness,
		Lyrics:      scoresResponse(a.LyricScores),
		Titles:      scoresResponse(a.TitleScores),
		Final:       a.Final,
		CreatedAt:   a.CreatedAt,
	}
}

// CreateAnalysis handles POST /analyses
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Artist == "" {
		writeError(w, http.StatusBadRequest, "title and artist are required")
		return
	}

	h.mu.Lock()
	analysis, err := h.svc.Analyze(r.Context(), req.Title, req.Artist)
	h.mu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSongNotFound):
			writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeSongNotFound)
		case errors.Is(err, ports.ErrNoConfidentMatch):
			writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeNoConfidentMatch)
		case errors.Is(err, domain.ErrFeaturesUnavailable):
			writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeNoFeatures)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if analysis.ID != "" {
		w.Header().Set("Location", "/analyses/"+analysis.ID)
	}
	writeJSON(w, http.StatusCreated, toResponse(analysis))
}

// GetAnalysis handles GET /analyses/{id}
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}
	if h.store == nil {
		writeError(w, http.StatusNotImplemented, "analysis history not configured")
		return
	}

	analysis, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toResponse(analysis))
}
