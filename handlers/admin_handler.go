package handlers

import (
	"errors"
	"net/http"

	"hukukai-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the plaintext admin key
const AdminKeyHeader = "X-Admin-Key"

// AdminHandler handles corpus maintenance requests
type AdminHandler struct {
	referenceService *service.ReferenceService
	keyHash          []byte
	logger           *zap.Logger
}

// NewAdminHandler creates a new admin handler. An empty keyHash disables every admin route.
func NewAdminHandler(referenceService *service.ReferenceService, keyHash string, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		referenceService: referenceService,
		keyHash:          []byte(keyHash),
		logger:           logger,
	}
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match the configured hash
func (h *AdminHandler) RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(h.keyHash) == 0 {
			respondError(c, http.StatusForbidden, "ADMIN_DISABLED", "Admin endpoints are disabled")
			c.Abort()
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword(h.keyHash, []byte(key)) != nil {
			h.logger.Warn("Rejected admin request", zap.String("client_ip", c.ClientIP()))
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid admin key")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ResetCorpus handles POST /api/admin/reset
func (h *AdminHandler) ResetCorpus(c *gin.Context) {
	if err := h.referenceService.ResetCorpus(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "RESET_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, gin.H{"reset": true})
}

// DeleteAnalysis handles DELETE /api/admin/analyses/:id
func (h *AdminHandler) DeleteAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid analysis ID format")
		return
	}

	err = h.referenceService.DeleteReport(c.Request.Context(), id)
	if errors.Is(err, service.ErrReportsNotConfigured) {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Analysis storage is not configured")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": id.String()})
}
