package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/aureon/opportunity-engine/internal/api"
	"github.com/aureon/opportunity-engine/internal/config"
	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/internal/ingestion"
	"github.com/aureon/opportunity-engine/internal/pricing"
	"github.com/aureon/opportunity-engine/internal/risk"
	"github.com/aureon/opportunity-engine/internal/scoring"
	"github.com/aureon/opportunity-engine/internal/supplychain"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	logger.Info().Msg("Starting Aureon Opportunity Engine...")

	// ─── Configuration ──────────────────────────────────────────────
	// All credentials come from environment variables (or a local .env).
	// No fallback defaults for security-sensitive values.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	ctx := context.Background()

	dbStore, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer dbStore.Close()

	if err := dbStore.InitSchema(ctx); err != nil {
		logger.Warn().Err(err).Msg("schema init failed")
	}

	// Setup WebSocket hub for dashboard event streaming
	wsHub := api.NewHub(logger)
	go wsHub.Run()

	// Feed fetcher: live SAM.gov client when a key is configured, stub
	// sample data otherwise so local development still exercises the
	// full ingestion path.
	var fetcher ingestion.Fetcher
	if cfg.SAMGovAPIKey != "" {
		fetcher = ingestion.NewSAMGovClient(cfg.SAMGovBaseURL, cfg.SAMGovAPIKey, cfg.HTTPTimeout, logger)
	} else {
		logger.Warn().Msg("SAM_GOV_API_KEY not set - ingestion will serve stub sample data")
		fetcher = ingestion.NewStubFetcher(nil)
	}

	ingester := ingestion.NewIngester(fetcher, dbStore, logger, func(alert ingestion.OpportunityAlert) {
		payload, err := json.Marshal(map[string]any{
			"type":        "opportunity_ingested",
			"opportunity": alert,
		})
		if err != nil {
			return
		}
		wsHub.Broadcast(payload)
	})

	// Setup the Gin router with the scoring engines
	r := api.SetupRouter(api.Options{
		Store:           dbStore,
		Hub:             wsHub,
		Scorer:          scoring.NewRelevanceScorer(cfg.RelevanceWeights),
		WinModel:        scoring.NewWinProbabilityModel(nil),
		Assessor:        risk.NewAssessor(risk.DefaultCategoryWeights()),
		Verifier:        supplychain.NewVerifier(logger),
		Pricer:          pricing.NewService(logger),
		Ingester:        ingester,
		AuthToken:       cfg.APIAuthToken,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		RateLimitBurst:  cfg.RateLimitBurst,
		Log:             logger,
	})

	logger.Info().Str("port", cfg.Port).Msg("engine running")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
