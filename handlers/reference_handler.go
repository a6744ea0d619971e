package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hukukai-backend/models"
	"hukukai-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferenceHandler handles HTTP requests for legal reference lookups
type ReferenceHandler struct {
	referenceService *service.ReferenceService
	logger           *zap.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService *service.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceHandler{
		referenceService: referenceService,
		logger:           logger,
	}
}

// AnalyzeRequest represents the request body for a case analysis
type AnalyzeRequest struct {
	CaseDescription string `json:"case_description" binding:"required"`
	CaseCategory    string `json:"case_category"`
	AnalysisText    string `json:"analysis_text"`
	Limit           int    `json:"limit"`
}

// AnalyzeResponse is the data section of a successful analysis
type AnalyzeResponse struct {
	AnalysisID     uuid.UUID                 `json:"analysis_id"`
	Keywords       []string                  `json:"keywords"`
	Laws           []models.LawCitation      `json:"laws"`
	Decisions      []models.DecisionCitation `json:"decisions"`
	AnalysisText   string                    `json:"analysis_text,omitempty"`
	AnalysisSource models.AnalysisSource     `json:"analysis_source"`
	Degraded       bool                      `json:"degraded"`
	Persisted      bool                      `json:"persisted"`
}

// Analyze handles POST /api/references/analyze
func (h *ReferenceHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.CaseDescription) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "case_description is required")
		return
	}

	result, err := h.referenceService.Analyze(c.Request.Context(), service.AnalyzeRequest{
		CaseDescription: req.CaseDescription,
		CaseCategory:    req.CaseCategory,
		AnalysisText:    req.AnalysisText,
		Limit:           req.Limit,
	})
	if err != nil {
		h.logger.Error("Analysis failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ANALYSIS_FAILED", err.Error())
		return
	}

	report := result.Report
	respondOK(c, http.StatusOK, AnalyzeResponse{
		AnalysisID:     report.ID,
		Keywords:       report.Keywords,
		Laws:           report.Citations.Laws,
		Decisions:      report.Citations.Decisions,
		AnalysisText:   report.AnalysisText,
		AnalysisSource: report.AnalysisSource,
		Degraded:       report.Degraded,
		Persisted:      result.Persisted,
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *ReferenceHandler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	report, err := h.referenceService.GetReport(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis not found")
		return
	case errors.Is(err, service.ErrReportsNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Analysis storage is not configured")
		return
	case err != nil:
		h.logger.Error("Failed to load analysis", zap.String("analysis_id", id.String()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, report)
}

// SearchLaws handles GET /api/laws/search?q=&category=
func (h *ReferenceHandler) SearchLaws(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Query parameter q is required")
		return
	}

	statutes, err := h.referenceService.SearchStatutes(c.Request.Context(), query, c.Query("category"))
	if err != nil {
		h.logger.Error("Statute search failed", zap.String("query", query), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, statutes)
}

// SearchDecisions handles GET /api/decisions/search?q=&chamber=
func (h *ReferenceHandler) SearchDecisions(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Query parameter q is required")
		return
	}

	decisions, err := h.referenceService.SearchDecisions(c.Request.Context(), query, c.Query("chamber"))
	if err != nil {
		h.logger.Error("Decision search failed", zap.String("query", query), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, decisions)
}

// SearchArticles handles GET /api/articles/search?law_id=&q=
func (h *ReferenceHandler) SearchArticles(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var lawID int64
	if raw := c.Query("law_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid law ID format")
			return
		}
		lawID = id
	}

	if query == "" && lawID == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Query parameter q or law_id is required")
		return
	}

	articles, err := h.referenceService.SearchArticles(c.Request.Context(), lawID, query)
	if err != nil {
		h.logger.Error("Article search failed", zap.String("query", query), zap.Int64("law_id", lawID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, articles)
}

// GetLaw handles GET /api/laws/:id
func (h *ReferenceHandler) GetLaw(c *gin.Context) {
	id, ok := parseID(c, "Invalid law ID format")
	if !ok {
		return
	}

	statute, err := h.referenceService.GetStatute(c.Request.Context(), id)
	if errors.Is(err, service.ErrStatuteNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Law not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get statute", zap.Int64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, statute)
}

// GetDecision handles GET /api/decisions/:id
func (h *ReferenceHandler) GetDecision(c *gin.Context) {
	id, ok := parseID(c, "Invalid decision ID format")
	if !ok {
		return
	}

	decision, err := h.referenceService.GetDecision(c.Request.Context(), id)
	if errors.Is(err, service.ErrDecisionNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Decision not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get decision", zap.Int64("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, decision)
}

func parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", message)
		return 0, false
	}
	return id, true
}
