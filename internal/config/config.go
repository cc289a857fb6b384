package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aureon/opportunity-engine/internal/scoring"
)

// Config is the engine's environment-driven configuration. Secrets have
// no fallback defaults; non-secret settings do.
type Config struct {
	Port        string
	DatabaseURL string

	SAMGovAPIKey  string
	SAMGovBaseURL string
	HTTPTimeout   time.Duration

	AllowedOrigins string
	APIAuthToken   string

	RateLimitPerMin int
	RateLimitBurst  int

	// CacheTTL is advisory; it is loaded from CACHE_TTL_SECONDS but no
	// handler reads it.
	CacheTTL time.Duration

	// RelevanceWeights carries any RELEVANCE_WEIGHT_* overrides; the
	// defaults otherwise.
	RelevanceWeights scoring.Weights
}

// Load reads configuration from the environment, after attempting a .env
// autoload for local development. DATABASE_URL is the one hard
// requirement.
func Load() (*Config, error) {
	// Best-effort: a missing .env file is fine in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "5340"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SAMGovAPIKey:    os.Getenv("SAM_GOV_API_KEY"),
		SAMGovBaseURL:   getEnvOrDefault("SAM_GOV_BASE_URL", "https://api.sam.gov/opportunities/v2/search"),
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		APIAuthToken:    os.Getenv("API_AUTH_TOKEN"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 60),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable DATABASE_URL is not set")
	}

	weights, err := relevanceWeightsFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.RelevanceWeights = weights

	return cfg, nil
}

// relevanceWeightsFromEnv applies RELEVANCE_WEIGHT_* overrides on top of
// the defaults and verifies the result still sums to 1.0.
func relevanceWeightsFromEnv() (scoring.Weights, error) {
	w := scoring.DefaultWeights()

	overridden := false
	set := func(key string, dst *float64) error {
		val := os.Getenv(key)
		if val == "" {
			return nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", key, err)
		}
		*dst = f
		overridden = true
		return nil
	}

	for key, dst := range map[string]*float64{
		"RELEVANCE_WEIGHT_NAICS":            &w.NAICS,
		"RELEVANCE_WEIGHT_SEMANTIC":         &w.Semantic,
		"RELEVANCE_WEIGHT_GEOGRAPHIC":       &w.Geographic,
		"RELEVANCE_WEIGHT_SIZE":             &w.Size,
		"RELEVANCE_WEIGHT_PAST_PERFORMANCE": &w.PastPerformance,
	} {
		if err := set(key, dst); err != nil {
			return w, err
		}
	}

	if overridden && math.Abs(w.Sum()-1.0) > 1e-9 {
		return w, fmt.Errorf("relevance weight overrides must sum to 1.0, got %v", w.Sum())
	}

	return w, nil
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
