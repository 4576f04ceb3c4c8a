// Package api exposes the indexing service over HTTP: login, single
// document analysis, raw text analysis and the bulk update run.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/auth"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/bulk"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/detect"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/docuware"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/ocr"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/storage"
)

const Version = "1.2.0"

var startTime = time.Now()

// Handler handles HTTP requests for document indexing
type Handler struct {
	config       *models.Config
	tokens       *auth.Manager
	provider     *docuware.Provider
	engine       ocr.Engine
	analyzer     *detect.Analyzer
	orchestrator *bulk.Orchestrator
	archive      *storage.Archive
	log          zerolog.Logger
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, tokens *auth.Manager, provider *docuware.Provider,
	engine ocr.Engine, analyzer *detect.Analyzer, orchestrator *bulk.Orchestrator,
	archive *storage.Archive) *Handler {
	return &Handler{
		config:       config,
		tokens:       tokens,
		provider:     provider,
		engine:       engine,
		analyzer:     analyzer,
		orchestrator: orchestrator,
		archive:      archive,
		log:          logger.WithComponent("api"),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Public endpoints
	router.HandleFunc("/api/login", auth.LoginHandler(h.tokens, h.config.Auth)).Methods("POST")
	router.HandleFunc("/health", h.Health).Methods("GET")

	// Protected endpoints
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(h.tokens.Middleware)
	protected.HandleFunc("/documents/bulk-update", h.BulkUpdate).Methods("POST")
	protected.HandleFunc("/documents/{id}/analyze", h.AnalyzeDocument).Methods("POST")
	protected.HandleFunc("/analyze-text", h.AnalyzeText).Methods("POST")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status     string        `json:"status"`
	Version    string        `json:"version"`
	Timestamp  string        `json:"timestamp"`
	Uptime     string        `json:"uptime"`
	Memory     MemoryStats   `json:"memory"`
	Repository ServiceStatus `json:"repository"`
	OCR        ServiceStatus `json:"ocr"`
	Archive    ServiceStatus `json:"archive"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Health endpoint for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	repoStatus := h.checkRepository()
	ocrStatus := h.checkOCR()
	archiveStatus := h.checkArchive()

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Repository: repoStatus,
		OCR:        ocrStatus,
		Archive:    archiveStatus,
	}

	if !repoStatus.Available || !ocrStatus.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkRepository verifies the document repository client can be built
func (h *Handler) checkRepository() ServiceStatus {
	if _, err := h.provider.Client(); err != nil {
		return ServiceStatus{Available: false, Error: err.Error()}
	}
	return ServiceStatus{Available: true, Detail: h.config.DocRepo.BaseURL}
}

// checkOCR verifies an OCR engine is configured
func (h *Handler) checkOCR() ServiceStatus {
	if h.engine == nil {
		return ServiceStatus{Available: false, Error: "ocr engine not configured"}
	}
	return ServiceStatus{Available: true, Detail: h.config.OCR.Engine}
}

// checkArchive reports whether the optional document archive is active
func (h *Handler) checkArchive() ServiceStatus {
	if h.archive == nil {
		return ServiceStatus{Available: false, Detail: "archiving disabled"}
	}
	return ServiceStatus{Available: true, Detail: "MinIO S3"}
}

// BulkUpdate runs a batch over the most recent documents in the cabinet.
// POST /api/documents/bulk-update
func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CabinetID == "" {
		req.CabinetID = h.config.DocRepo.CabinetID
	}
	if req.Language == "" {
		req.Language = h.config.OCR.Language
	}

	result, err := h.orchestrator.Run(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			h.sendError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrResolution):
			h.sendError(w, http.StatusBadGateway, err.Error())
		default:
			h.log.Error().Err(err).Msg("bulk run failed")
			h.sendError(w, http.StatusInternalServerError, "bulk run failed")
		}
		return
	}

	json.NewEncoder(w).Encode(result)
}

// AnalyzeDocument fetches one stored document, runs OCR and field
// detection, and returns the facts without writing anything back.
// POST /api/documents/{id}/analyze
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	documentID := mux.Vars(r)["id"]
	if documentID == "" {
		h.sendError(w, http.StatusBadRequest, "document id is required")
		return
	}

	client, err := h.provider.Client()
	if err != nil {
		h.sendError(w, http.StatusBadGateway, "document repository unavailable")
		return
	}

	content, contentType, err := client.GetDocumentContent(r.Context(), documentID)
	if err != nil {
		h.log.Warn().Err(err).Str("document_id", documentID).Msg("content fetch failed")
		h.sendError(w, http.StatusBadGateway, "could not fetch document content")
		return
	}

	ocrStart := time.Now()
	raw, err := h.engine.ExtractText(r.Context(), content, contentType, h.config.OCR.Language)
	if err != nil {
		h.log.Warn().Err(err).Str("document_id", documentID).Msg("ocr failed")
		h.sendError(w, http.StatusBadGateway, "text extraction failed")
		return
	}

	facts := h.analyzer.Analyze(raw.Text)
	json.NewEncoder(w).Encode(models.AnalyzeResponse{
		Success:    true,
		DocumentID: documentID,
		Facts:      facts,
		OCRMs:      time.Since(ocrStart).Milliseconds(),
	})
}

// AnalyzeTextRequest is the raw-text analysis input.
type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

// AnalyzeText runs field detection over caller-provided text. Useful for
// testing pattern coverage without touching the repository or OCR.
// POST /api/analyze-text
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.sendError(w, http.StatusBadRequest, "text is required")
		return
	}

	facts := h.analyzer.Analyze(req.Text)
	json.NewEncoder(w).Encode(models.AnalyzeResponse{
		Success: true,
		Facts:   facts,
	})
}

// sendError sends a JSON error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
