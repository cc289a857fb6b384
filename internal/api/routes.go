package api

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/internal/ingestion"
	"github.com/aureon/opportunity-engine/internal/pricing"
	"github.com/aureon/opportunity-engine/internal/risk"
	"github.com/aureon/opportunity-engine/internal/scoring"
	"github.com/aureon/opportunity-engine/internal/supplychain"
)

// maxBatchScoreIDs caps a single batch scoring request to prevent runaway
// resource exhaustion from unconstrained requests.
const maxBatchScoreIDs = 100

// batchScoreWorkers bounds per-request scoring concurrency.
const batchScoreWorkers = 8

// Options carries the wiring for the router.
type Options struct {
	Store          db.Store
	Hub            *Hub
	Scorer         *scoring.RelevanceScorer
	WinModel       *scoring.WinProbabilityModel
	Assessor       *risk.Assessor
	Verifier       *supplychain.Verifier
	Pricer         *pricing.Service
	Ingester       *ingestion.Ingester
	AuthToken      string
	AllowedOrigins string
	RateLimitPerMin int
	RateLimitBurst  int
	Log            zerolog.Logger
}

type APIHandler struct {
	store    db.Store
	wsHub    *Hub
	scorer   *scoring.RelevanceScorer
	winModel *scoring.WinProbabilityModel
	assessor *risk.Assessor
	verifier *supplychain.Verifier
	pricer   *pricing.Service
	ingester *ingestion.Ingester
	log      zerolog.Logger
}

// SetupRouter wires the gin engine: CORS, public endpoints, then the
// auth- and rate-limited API surface.
func SetupRouter(opts Options) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS
	// Production: ALLOWED_ORIGINS=https://app.example.com
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := opts.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	}
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Check if the request origin is in the allowed list
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		store:    opts.Store,
		wsHub:    opts.Hub,
		scorer:   opts.Scorer,
		winModel: opts.WinModel,
		assessor: opts.Assessor,
		verifier: opts.Verifier,
		pricer:   opts.Pricer,
		ingester: opts.Ingester,
		log:      opts.Log.With().Str("component", "api").Logger(),
	}

	// ── Public endpoints (no auth) ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		if opts.Hub != nil {
			pub.GET("/stream", opts.Hub.Subscribe)
		}
	}

	// ── Protected endpoints (require bearer token if configured) ──
	ratePerMin, burst := opts.RateLimitPerMin, opts.RateLimitBurst
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	if burst <= 0 {
		burst = 10
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware(opts.AuthToken))
	auth.Use(NewRateLimiter(ratePerMin, burst).Middleware())
	{
		// Relevance scoring
		sc := auth.Group("/scoring")
		{
			sc.POST("/calculate", handler.handleCalculateScore)
			sc.POST("/batch", handler.handleBatchScore)
		}

		auth.POST("/risk/assess", handler.handleAssessRisk)
		auth.POST("/win-probability/calculate", handler.handleWinProbability)

		// Supply-chain compliance
		sup := auth.Group("/supply-chain")
		{
			sup.POST("/verify", handler.handleVerifySupplier)
			sup.POST("/section-889/check", handler.handleSection889Check)
			sup.POST("/taa/check", handler.handleTAACheck)
			sup.POST("/taa/batch-check", handler.handleTAABatchCheck)
		}

		// Pricing intelligence
		pr := auth.Group("/pricing")
		{
			pr.POST("/recommendation", handler.handlePricingRecommendation)
			pr.POST("/should-cost", handler.handleShouldCost)
		}

		// Proposal template outlines
		auth.POST("/proposals/outline", handler.handleProposalOutline)

		// Feed ingestion
		ig := auth.Group("/ingestion")
		{
			ig.POST("/trigger", handler.handleTriggerIngestion)
			ig.GET("/status/:id", handler.handleIngestionStatus)
			ig.GET("/history", handler.handleIngestionHistory)
		}

		// Organizations CRUD
		orgs := auth.Group("/organizations")
		{
			orgs.POST("", handler.handleCreateOrganization)
			orgs.GET("", handler.handleListOrganizations)
			orgs.GET("/:id", handler.handleGetOrganization)
			orgs.PUT("/:id", handler.handleUpdateOrganization)
			orgs.DELETE("/:id", handler.handleDeleteOrganization)
		}

		// Opportunities
		opps := auth.Group("/opportunities")
		{
			opps.POST("", handler.handleCreateOpportunity)
			opps.GET("", handler.handleListOpportunities)
			opps.GET("/:id", handler.handleGetOpportunity)
			opps.GET("/naics/:code", handler.handleListOpportunitiesByNAICS)
		}
	}

	return r
}

// handleHealth returns engine status and capabilities for service discovery
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "operational",
		"engine": "Aureon Opportunity Engine v1.0",
		"capabilities": gin.H{
			"relevance_scoring": true,
			"risk_assessment":   true,
			"win_probability":   true,
			"supply_chain":      true,
			"pricing":           true,
			"ingestion":         h.ingester != nil,
		},
		"dbConnected": h.store != nil,
	})
}
