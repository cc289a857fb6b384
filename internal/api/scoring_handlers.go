package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/pkg/models"
)

type scorePairRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	OpportunityID  uuid.UUID `json:"opportunity_id" binding:"required"`
}

// loadPair fetches the organization and opportunity, translating missing
// rows to 404s. Returns nils when a response was already written.
func (h *APIHandler) loadPair(c *gin.Context, orgID, oppID uuid.UUID) (*models.Organization, *models.Opportunity) {
	org, err := h.store.GetOrganization(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load organization", "details": err.Error()})
		}
		return nil, nil
	}

	opp, err := h.store.GetOpportunity(c.Request.Context(), oppID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load opportunity", "details": err.Error()})
		}
		return nil, nil
	}

	return org, opp
}

// handleCalculateScore scores one (organization, opportunity) pair and
// upserts the result. POST /api/v1/scoring/calculate
func (h *APIHandler) handleCalculateScore(c *gin.Context) {
	var req scorePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {organization_id, opportunity_id}"})
		return
	}

	org, opp := h.loadPair(c, req.OrganizationID, req.OpportunityID)
	if org == nil {
		return
	}

	score := h.scorer.Score(org, opp)
	if err := h.store.UpsertRelevanceScore(c.Request.Context(), &score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store relevance score", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, score)
}

// handleBatchScore scores up to 100 opportunities for one organization.
// Per-opportunity scoring runs on a bounded worker pool; results commit
// all-or-nothing and return ranked by overall score descending, stable on
// ties by request order.
// POST /api/v1/scoring/batch
func (h *APIHandler) handleBatchScore(c *gin.Context) {
	var req struct {
		OrganizationID uuid.UUID   `json:"organization_id" binding:"required"`
		OpportunityIDs []uuid.UUID `json:"opportunity_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {organization_id, opportunity_ids}"})
		return
	}
	if len(req.OpportunityIDs) == 0 || len(req.OpportunityIDs) > maxBatchScoreIDs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "opportunity_ids must contain between 1 and 100 entries",
			"maxIds": maxBatchScoreIDs,
		})
		return
	}

	ctx := c.Request.Context()

	org, err := h.store.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load organization", "details": err.Error()})
		}
		return
	}

	type slot struct {
		index int
		score models.RelevanceScore
		err   error
	}

	results := make([]slot, len(req.OpportunityIDs))
	sem := make(chan struct{}, batchScoreWorkers)
	var wg sync.WaitGroup
	scoreCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, oppID := range req.OpportunityIDs {
		wg.Add(1)
		go func(i int, oppID uuid.UUID) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-scoreCtx.Done():
				results[i] = slot{index: i, err: scoreCtx.Err()}
				return
			}

			opp, err := h.store.GetOpportunity(scoreCtx, oppID)
			if err != nil {
				results[i] = slot{index: i, err: err}
				cancel()
				return
			}
			results[i] = slot{index: i, score: h.scorer.Score(org, opp)}
		}(i, oppID)
	}
	wg.Wait()

	// A missing opportunity cancels the remaining workers; report the
	// NotFound rather than the cancellations it caused.
	var firstErr error
	firstErrIndex := -1
	for _, r := range results {
		if r.err == nil {
			continue
		}
		if errors.Is(r.err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found", "index": r.index})
			return
		}
		if firstErr == nil {
			firstErr, firstErrIndex = r.err, r.index
		}
	}
	if firstErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch scoring failed", "details": firstErr.Error(), "index": firstErrIndex})
		return
	}

	scores := make([]models.RelevanceScore, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.score)
	}

	// Commit after every record succeeded: all-or-nothing per batch.
	if err := h.store.UpsertRelevanceScores(ctx, scores); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store batch scores", "details": err.Error()})
		return
	}

	// Rank by overall score descending; SliceStable keeps request order
	// for ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})

	c.JSON(http.StatusOK, gin.H{
		"organizationId": req.OrganizationID,
		"count":          len(scores),
		"scores":         scores,
	})
}

// handleAssessRisk runs the six-category risk assessment and upserts the
// result. POST /api/v1/risk/assess
func (h *APIHandler) handleAssessRisk(c *gin.Context) {
	var req scorePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {organization_id, opportunity_id}"})
		return
	}

	org, opp := h.loadPair(c, req.OrganizationID, req.OpportunityID)
	if org == nil {
		return
	}

	assessment := h.assessor.Assess(org, opp)
	if err := h.store.UpsertRiskAssessment(c.Request.Context(), &assessment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store risk assessment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// handleWinProbability runs the seven-factor win-probability model.
// Results are computed on demand and not persisted.
// POST /api/v1/win-probability/calculate
func (h *APIHandler) handleWinProbability(c *gin.Context) {
	var req scorePairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {organization_id, opportunity_id}"})
		return
	}

	org, opp := h.loadPair(c, req.OrganizationID, req.OpportunityID)
	if org == nil {
		return
	}

	c.JSON(http.StatusOK, h.winModel.Predict(org, opp))
}
