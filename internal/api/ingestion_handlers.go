package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/internal/ingestion"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// handleTriggerIngestion queues an ingestion job and returns immediately
// with the log id. The job runs in the background; progress is visible on
// /ingestion/status/:id and completion events stream over the hub.
// POST /api/v1/ingestion/trigger
func (h *APIHandler) handleTriggerIngestion(c *gin.Context) {
	if h.ingester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingestion not configured"})
		return
	}

	var req struct {
		NAICSCodes    []string `json:"naics_codes"`
		PostedFrom    string   `json:"posted_from"`
		PostedTo      string   `json:"posted_to"`
		NoticeTypes   []string `json:"notice_types"`
		SetAsideCodes []string `json:"set_aside_codes"`
		Limit         int      `json:"limit"`
	}
	// An empty body is fine: every parameter has a default. The binder
	// reports an absent body as io.EOF.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry := &models.IngestionLog{
		SourceSystem: h.ingester.SourceSystem(),
		Status:       models.IngestionQueued,
	}
	if err := h.store.CreateIngestionLog(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ingestion log", "details": err.Error()})
		return
	}

	params := ingestion.FetchParams{
		NAICSCodes:    req.NAICSCodes,
		PostedFrom:    req.PostedFrom,
		PostedTo:      req.PostedTo,
		NoticeTypes:   req.NoticeTypes,
		SetAsideCodes: req.SetAsideCodes,
		Limit:         req.Limit,
	}

	// Detach from the request context: the job outlives the HTTP call.
	go func() {
		stats, err := h.ingester.Run(context.Background(), entry, params)
		if h.wsHub == nil {
			return
		}
		payload, _ := json.Marshal(gin.H{
			"type":        "ingestion_complete",
			"ingestionId": entry.ID.String(),
			"status":      entry.Status,
			"stats":       stats,
			"error":       errString(err),
		})
		h.wsHub.Broadcast(payload)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":      "queued",
		"ingestionId": entry.ID,
		"source":      entry.SourceSystem,
	})
}

// handleIngestionStatus returns one ingestion log row.
// GET /api/v1/ingestion/status/:id
func (h *APIHandler) handleIngestionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingestion id"})
		return
	}

	entry, err := h.store.GetIngestionLog(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ingestion log not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ingestion log", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// handleIngestionHistory lists recent ingestion runs.
// GET /api/v1/ingestion/history
func (h *APIHandler) handleIngestionHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.store.ListIngestionLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingestion logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs, "count": len(logs)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
