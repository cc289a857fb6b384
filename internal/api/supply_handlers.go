package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/internal/pricing"
	"github.com/aureon/opportunity-engine/internal/proposal"
	"github.com/aureon/opportunity-engine/internal/supplychain"
)

// handleVerifySupplier runs the complete supplier verification.
// POST /api/v1/supply-chain/verify
func (h *APIHandler) handleVerifySupplier(c *gin.Context) {
	var req struct {
		SupplierName    string                  `json:"supplier_name" binding:"required"`
		SupplierID      string                  `json:"supplier_id"`
		CountryOfOrigin string                  `json:"country_of_origin"`
		Components      []supplychain.Component `json:"components"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {supplier_name, ...}"})
		return
	}
	if req.CountryOfOrigin != "" && len(strings.TrimSpace(req.CountryOfOrigin)) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country_of_origin must be an ISO-2 code"})
		return
	}

	c.JSON(http.StatusOK, h.verifier.VerifySupplier(req.SupplierName, req.SupplierID, req.CountryOfOrigin, req.Components))
}

// handleSection889Check screens a supplier name against the prohibited
// entity tables. POST /api/v1/supply-chain/section-889/check
func (h *APIHandler) handleSection889Check(c *gin.Context) {
	var req struct {
		SupplierName string                  `json:"supplier_name" binding:"required"`
		Components   []supplychain.Component `json:"components"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {supplier_name}"})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckSection889(req.SupplierName, req.Components))
}

// handleTAACheck validates one country of origin.
// POST /api/v1/supply-chain/taa/check
func (h *APIHandler) handleTAACheck(c *gin.Context) {
	var req struct {
		CountryCode string `json:"country_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {country_code}"})
		return
	}
	if len(strings.TrimSpace(req.CountryCode)) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country_code must be an ISO-2 code"})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckTAA(req.CountryCode))
}

// handleTAABatchCheck validates several countries at once.
// POST /api/v1/supply-chain/taa/batch-check
func (h *APIHandler) handleTAABatchCheck(c *gin.Context) {
	var req struct {
		CountryCodes []string `json:"country_codes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {country_codes}"})
		return
	}
	for _, code := range req.CountryCodes {
		if len(strings.TrimSpace(code)) != 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "country codes must be ISO-2", "invalid": code})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": h.verifier.BatchCheckTAA(req.CountryCodes)})
}

// handlePricingRecommendation generates the price band and advisory notes
// for an opportunity shape. POST /api/v1/pricing/recommendation
func (h *APIHandler) handlePricingRecommendation(c *gin.Context) {
	var req struct {
		OpportunityID     string           `json:"opportunity_id"`
		NAICSCode         string           `json:"naics_code"`
		Description       string           `json:"description"`
		SetAsideType      string           `json:"set_aside_type"`
		ContractType      string           `json:"contract_type"`
		EstimatedValueMin *decimal.Decimal `json:"estimated_value_min"`
		EstimatedValueMax *decimal.Decimal `json:"estimated_value_max"`
		LaborMix          map[string]int   `json:"labor_mix"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rec := h.pricer.Recommend(pricing.PricingInput{
		OpportunityID:     req.OpportunityID,
		NAICSCode:         req.NAICSCode,
		Description:       req.Description,
		SetAsideType:      req.SetAsideType,
		ContractType:      req.ContractType,
		EstimatedValueMin: req.EstimatedValueMin,
		EstimatedValueMax: req.EstimatedValueMax,
	}, req.LaborMix)

	c.JSON(http.StatusOK, rec)
}

// handleShouldCost computes the bottom-up labor cost estimate.
// POST /api/v1/pricing/should-cost
func (h *APIHandler) handleShouldCost(c *gin.Context) {
	var req struct {
		LaborMix       map[string]int   `json:"labor_mix" binding:"required"`
		DurationMonths int              `json:"duration_months"`
		OverheadRate   *decimal.Decimal `json:"overhead_rate"`
		ProfitMargin   *decimal.Decimal `json:"profit_margin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {labor_mix, ...}"})
		return
	}
	if len(req.LaborMix) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "labor_mix must not be empty"})
		return
	}

	overhead := decimal.RequireFromString("1.5")
	if req.OverheadRate != nil {
		overhead = *req.OverheadRate
	}
	margin := decimal.RequireFromString("0.10")
	if req.ProfitMargin != nil {
		margin = *req.ProfitMargin
	}

	c.JSON(http.StatusOK, h.pricer.CalculateShouldCost(req.LaborMix, req.DurationMonths, overhead, margin))
}

// handleProposalOutline renders the deterministic template sections for a
// proposal draft. POST /api/v1/proposals/outline
func (h *APIHandler) handleProposalOutline(c *gin.Context) {
	var req struct {
		OrganizationName       string   `json:"organization_name"`
		PastPerformanceSummary string   `json:"past_performance_summary"`
		OpportunityTitle       string   `json:"opportunity_title"`
		Sections               []string `json:"sections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sections := proposal.Outline(req.OrganizationName, req.PastPerformanceSummary, req.OpportunityTitle, req.Sections)
	c.JSON(http.StatusOK, gin.H{
		"sections":       sections,
		"sectionTypes":   proposal.SectionTypes(),
		"generationMode": "template",
	})
}
