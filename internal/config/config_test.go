package config

import (
	"math"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/engine_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "5340" {
		t.Errorf("port = %s, want default 5340", cfg.Port)
	}
	if cfg.RateLimitPerMin != 60 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit defaults wrong: %d/%d", cfg.RateLimitPerMin, cfg.RateLimitBurst)
	}
	if math.Abs(cfg.RelevanceWeights.Sum()-1.0) > 1e-9 {
		t.Errorf("default weights sum to %v", cfg.RelevanceWeights.Sum())
	}
}

func TestLoad_WeightOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/engine_test")
	t.Setenv("RELEVANCE_WEIGHT_NAICS", "0.40")
	t.Setenv("RELEVANCE_WEIGHT_SEMANTIC", "0.15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RelevanceWeights.NAICS != 0.40 {
		t.Errorf("naics weight = %v, want 0.40", cfg.RelevanceWeights.NAICS)
	}
}

func TestLoad_RejectsUnbalancedWeights(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/engine_test")
	t.Setenv("RELEVANCE_WEIGHT_NAICS", "0.90")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when overridden weights do not sum to 1.0")
	}
}
