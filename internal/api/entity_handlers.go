package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// organizationRequest is the write shape for organization CRUD.
type organizationRequest struct {
	Name                   string           `json:"name" binding:"required"`
	LegalName              string           `json:"legal_name"`
	DUNS                   string           `json:"duns_number"`
	UEI                    string           `json:"uei"`
	CageCode               string           `json:"cage_code"`
	NAICSCodes             []string         `json:"naics_codes"`
	PSCCodes               []string         `json:"psc_codes"`
	SetAsideTypes          []string         `json:"set_aside_types"`
	AddressLine1           string           `json:"address_line1"`
	City                   string           `json:"city"`
	State                  string           `json:"state"`
	ZipCode                string           `json:"zip_code"`
	Country                string           `json:"country"`
	Website                string           `json:"website"`
	EmployeeCount          *int             `json:"employee_count"`
	AnnualRevenue          *decimal.Decimal `json:"annual_revenue"`
	CapabilitiesNarrative  string           `json:"capabilities_narrative"`
	PastPerformanceSummary string           `json:"past_performance_summary"`
}

func (r *organizationRequest) validate() string {
	if r.UEI != "" && len(r.UEI) != 12 {
		return "uei must be 12 characters"
	}
	if r.EmployeeCount != nil && *r.EmployeeCount < 0 {
		return "employee_count must be non-negative"
	}
	if r.AnnualRevenue != nil && r.AnnualRevenue.IsNegative() {
		return "annual_revenue must be non-negative"
	}
	return ""
}

func (r *organizationRequest) apply(org *models.Organization) {
	org.Name = r.Name
	org.LegalName = r.LegalName
	org.DUNS = r.DUNS
	org.UEI = r.UEI
	org.CageCode = r.CageCode
	org.NAICSCodes = r.NAICSCodes
	org.PSCCodes = r.PSCCodes
	org.SetAsideTypes = r.SetAsideTypes
	org.AddressLine1 = r.AddressLine1
	org.City = r.City
	org.State = strings.ToUpper(r.State)
	org.ZipCode = r.ZipCode
	org.Country = r.Country
	org.Website = r.Website
	org.EmployeeCount = r.EmployeeCount
	org.AnnualRevenue = r.AnnualRevenue
	org.CapabilitiesNarrative = r.CapabilitiesNarrative
	org.PastPerformanceSummary = r.PastPerformanceSummary
}

// POST /api/v1/organizations
func (h *APIHandler) handleCreateOrganization(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {name, ...}"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var org models.Organization
	req.apply(&org)

	if err := h.store.CreateOrganization(c.Request.Context(), &org); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GET /api/v1/organizations/:id
func (h *APIHandler) handleGetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization id"})
		return
	}

	org, err := h.store.GetOrganization(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load organization", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, org)
}

// PUT /api/v1/organizations/:id
func (h *APIHandler) handleUpdateOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization id"})
		return
	}

	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {name, ...}"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	org, err := h.store.GetOrganization(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load organization", "details": err.Error()})
		}
		return
	}

	req.apply(org)
	if err := h.store.UpdateOrganization(c.Request.Context(), org); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, org)
}

// DELETE /api/v1/organizations/:id. Cascades to scores and assessments.
func (h *APIHandler) handleDeleteOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization id"})
		return
	}

	if err := h.store.DeleteOrganization(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete organization", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// GET /api/v1/organizations
func (h *APIHandler) handleListOrganizations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orgs, total, err := h.store.ListOrganizations(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list organizations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orgs,
		"totalCount": total,
		"page":       page,
		"limit":      limit,
	})
}

// POST /api/v1/opportunities - manual opportunity entry. Upserts on the
// (source_system, source_id) natural key like the feed path, so posting
// the same record twice updates rather than duplicates.
func (h *APIHandler) handleCreateOpportunity(c *gin.Context) {
	var opp models.Opportunity
	if err := c.ShouldBindJSON(&opp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(opp.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if opp.SourceSystem == "" {
		opp.SourceSystem = "manual"
	}
	if opp.SourceID == "" {
		opp.SourceID = uuid.NewString()
	}
	if opp.Status == "" {
		opp.Status = models.StatusActive
	}

	inserted, err := h.store.UpsertOpportunity(c.Request.Context(), &opp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store opportunity", "details": err.Error()})
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	c.JSON(status, opp)
}

// GET /api/v1/opportunities
func (h *APIHandler) handleListOpportunities(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := db.OpportunityFilter{
		Status:   c.Query("status"),
		State:    strings.ToUpper(c.Query("state")),
		SetAside: c.Query("set_aside"),
		Page:     page,
		Limit:    limit,
	}

	opps, total, err := h.store.ListOpportunities(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list opportunities", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       opps,
		"totalCount": total,
		"page":       page,
		"limit":      limit,
	})
}

// GET /api/v1/opportunities/:id
func (h *APIHandler) handleGetOpportunity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opportunity id"})
		return
	}

	opp, err := h.store.GetOpportunity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load opportunity", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, opp)
}

// GET /api/v1/opportunities/naics/:code - prefix-filtered listing.
func (h *APIHandler) handleListOpportunitiesByNAICS(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NAICS code required"})
		return
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			c.JSON(http.StatusBadRequest, gin.H{"error": "NAICS code must be digits"})
			return
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opps, total, err := h.store.ListOpportunities(c.Request.Context(), db.OpportunityFilter{
		NAICSPrefix: code,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list opportunities", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       opps,
		"totalCount": total,
		"naicsCode":  code,
		"page":       page,
		"limit":      limit,
	})
}
