// internal/server/handlers/analysis.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/service/signal"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// AnalysisHandler handles analysis HTTP requests
type AnalysisHandler struct {
	service        analysis.Service
	maxUploadBytes int64
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service analysis.Service, maxUploadBytes int64) *AnalysisHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &AnalysisHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateAnalysis runs an analysis from a JSON body or a multipart form
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var (
		req analysis.Request
		err error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, err = h.parseForm(r)
	} else {
		req, err = parseJSON(r)
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	report, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		respondWithAnalysisError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// ListAnalyses returns the most recent reports
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxRecentLimit)
	}

	reports, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list analyses", err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// GetAnalysis returns a specific report by ID
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing analysis ID", nil)
		return
	}

	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Analysis not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get analysis", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

func parseJSON(r *http.Request) (analysis.Request, error) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return analysis.Request{}, fmt.Errorf("malformed JSON body: %w", err)
	}
	return req, nil
}

// parseForm reads keywords, days, location and an optional history CSV
func (h *AnalysisHandler) parseForm(r *http.Request) (analysis.Request, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return analysis.Request{}, fmt.Errorf("malformed form: %w", err)
	}

	var req analysis.Request
	for _, v := range r.MultipartForm.Value["keywords"] {
		req.Keywords = append(req.Keywords, strings.Split(v, ",")...)
	}
	req.Location = r.FormValue("location")

	if v := r.FormValue("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("%w: %q", analysis.ErrInvalidRange, v)
		}
		req.Days = days
	}

	file, _, err := r.FormFile("history")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return analysis.Request{}, fmt.Errorf("failed to read history: %w", err)
	}
	defer file.Close()

	source, err := signal.ParseCSV(file)
	if err != nil {
		return analysis.Request{}, err
	}
	req.Source = source

	return req, nil
}

func respondWithAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrNoKeywords),
		errors.Is(err, analysis.ErrTooManyKeywords),
		errors.Is(err, analysis.ErrInvalidRange),
		errors.Is(err, analysis.ErrUnknownCounty),
		errors.Is(err, analysis.ErrInvalidHistory):
		respondWithError(w, http.StatusBadRequest, "Invalid analysis request", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusServiceUnavailable, "Analysis interrupted", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to run analysis", err)
	}
}
