package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/aureon/opportunity-engine/pkg/models"
)

func TestDefaultWinFactorWeights_SumToOne(t *testing.T) {
	if math.Abs(DefaultWinFactorWeights().Sum()-1.0) > 1e-9 {
		t.Errorf("win factor weights sum to %v, want 1.0", DefaultWinFactorWeights().Sum())
	}
}

func TestPredict_StrongPursuePair(t *testing.T) {
	org := &models.Organization{
		NAICSCodes:            []string{"541512"},
		SetAsideTypes:         []string{"SB"},
		State:                 "VA",
		AnnualRevenue:         dec("5000000"),
		CapabilitiesNarrative: "cloud migration services",
	}
	opp := &models.Opportunity{
		Title:                   "Cloud Migration Services",
		Description:             "cloud migration services for federal agency",
		NAICSCode:               "541512",
		SetAsideType:            "SB",
		PlaceOfPerformanceState: "VA",
		EstimatedValueMax:       dec("1000000"),
	}

	result := NewWinProbabilityModel(nil).Predict(org, opp)

	if result.WinProbability < 0.70 {
		t.Errorf("win probability = %v, want >= 0.70", result.WinProbability)
	}
	if !strings.HasPrefix(result.Recommendation, "STRONG PURSUE") {
		t.Errorf("recommendation = %q, want STRONG PURSUE", result.Recommendation)
	}
	if result.Factors["capability_match"] != 1.0 {
		t.Errorf("capability factor = %v, want 1.0", result.Factors["capability_match"])
	}
	if result.Factors["setaside_eligibility"] != 1.0 {
		t.Errorf("setaside factor = %v, want 1.0", result.Factors["setaside_eligibility"])
	}
	if result.MatchScore != 1.0 {
		t.Errorf("match score = %v, want 1.0", result.MatchScore)
	}
}

func TestPredict_FactorsInRangeAndWeighted(t *testing.T) {
	org := &models.Organization{
		NAICSCodes:             []string{"541611"},
		State:                  "TX",
		AnnualRevenue:          dec("1000000"),
		PastPerformanceSummary: "veterans affairs staffing support across multiple contracts",
	}
	opp := &models.Opportunity{
		Title:                   "Consulting Support",
		NAICSCode:               "541512",
		NoticeType:              "Sources Sought",
		SetAsideType:            "SDVOSB",
		PlaceOfPerformanceState: "OK",
		EstimatedValueMax:       dec("2500000"),
		ContractingOfficeName:   "Department of Veterans Affairs",
	}

	model := NewWinProbabilityModel(nil)
	result := model.Predict(org, opp)

	weights := DefaultWinFactorWeights()
	expected := 0.0
	for name, v := range result.Factors {
		if v < 0 || v > 1 {
			t.Errorf("factor %s = %v out of [0,1]", name, v)
		}
		expected += v * weights[name]
	}
	if math.Abs(result.WinProbability-Round4(expected)) > 1e-4 {
		t.Errorf("win probability %v != weighted sum %v", result.WinProbability, expected)
	}

	if len(result.Analysis) != len(result.Factors) {
		t.Errorf("every factor needs an analysis line: %d vs %d", len(result.Analysis), len(result.Factors))
	}
}

func TestSetAsideEligibilityFactor_Cases(t *testing.T) {
	model := NewWinProbabilityModel(nil)

	tests := []struct {
		name     string
		orgCerts []string
		setAside string
		expected float64
	}{
		{"Open competition", []string{"SB"}, "", 0.6},
		{"Eligible", []string{"8A"}, "8A", 1.0},
		{"Ineligible", []string{"WOSB"}, "SDVOSB", 0.1},
		{"No certs, small business set-aside", nil, "Small Business Set-Aside", 0.3},
		{"No certs, other set-aside", nil, "HUBZone Set-Aside", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := &models.Organization{SetAsideTypes: tt.orgCerts}
			opp := &models.Opportunity{Title: "x", SetAsideType: tt.setAside}
			result := model.Predict(org, opp)
			if got := result.Factors["setaside_eligibility"]; got != tt.expected {
				t.Errorf("setaside factor = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCompetitionLevelFactor(t *testing.T) {
	model := NewWinProbabilityModel(nil)

	tests := []struct {
		notice   string
		expected float64
	}{
		{"Sole Source Justification", 0.2},
		{"Sources Sought", 0.7},
		{"Presolicitation", 0.6},
		{"Combined Synopsis/Solicitation", 0.5},
		{"Award Notice", 0.1},
		{"", 0.5},
		{"Special Notice", 0.5},
	}

	for _, tt := range tests {
		opp := &models.Opportunity{Title: "x", NoticeType: tt.notice}
		result := model.Predict(&models.Organization{}, opp)
		if got := result.Factors["competition_level"]; got != tt.expected {
			t.Errorf("notice %q: competition factor = %v, want %v", tt.notice, got, tt.expected)
		}
	}
}

func TestGeographicFitFactor_RemoteEligible(t *testing.T) {
	model := NewWinProbabilityModel(nil)

	org := &models.Organization{State: "WA"}
	opp := &models.Opportunity{
		Title:                   "x",
		Description:             "work may be performed remote with occasional travel",
		PlaceOfPerformanceState: "FL",
	}

	result := model.Predict(org, opp)
	if got := result.Factors["geographic_fit"]; got != 0.8 {
		t.Errorf("geographic factor = %v, want 0.8 for remote-eligible", got)
	}

	// DC metro pair scores higher than plain adjacency.
	org = &models.Organization{State: "MD"}
	opp = &models.Opportunity{Title: "x", PlaceOfPerformanceState: "DC"}
	result = model.Predict(org, opp)
	if got := result.Factors["geographic_fit"]; got != 0.9 {
		t.Errorf("geographic factor = %v, want 0.9 for DC metro pair", got)
	}
}

func TestPricingPositionFactor_Bands(t *testing.T) {
	model := NewWinProbabilityModel(nil)

	tests := []struct {
		value    string
		expected float64
	}{
		{"400000", 0.9},   // 8% of revenue
		{"1000000", 1.0},  // 20%
		{"2000000", 0.85}, // 40%
		{"3500000", 0.6},  // 70%
		{"7500000", 0.4},  // 150%
		{"15000000", 0.2}, // 300%
	}

	for _, tt := range tests {
		org := &models.Organization{AnnualRevenue: dec("5000000")}
		opp := &models.Opportunity{Title: "x", EstimatedValueMax: dec(tt.value)}
		result := model.Predict(org, opp)
		if got := result.Factors["pricing_position"]; got != tt.expected {
			t.Errorf("value %s: pricing factor = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestConfidence_GrowsWithDataAndCaps(t *testing.T) {
	model := NewWinProbabilityModel(nil)

	sparse := model.Predict(&models.Organization{}, &models.Opportunity{Title: "x"})

	rich := model.Predict(&models.Organization{
		NAICSCodes:             []string{"541512"},
		SetAsideTypes:          []string{"SB"},
		State:                  "VA",
		AnnualRevenue:          dec("5000000"),
		PastPerformanceSummary: "long record of federal delivery across agencies",
	}, &models.Opportunity{
		Title:                   "Cloud",
		Description:             strings.Repeat("cloud migration and modernization services ", 5),
		NAICSCode:               "541512",
		SetAsideType:            "SB",
		PlaceOfPerformanceState: "VA",
		EstimatedValueMax:       dec("1000000"),
	})

	if rich.Confidence <= sparse.Confidence {
		t.Errorf("confidence should grow with data completeness: %v vs %v", rich.Confidence, sparse.Confidence)
	}
	if rich.Confidence > 0.95 || sparse.Confidence > 0.95 {
		t.Error("confidence must cap at 0.95")
	}
}

func TestRecommendationBands(t *testing.T) {
	tests := []struct {
		prob   float64
		prefix string
	}{
		{0.75, "STRONG PURSUE"},
		{0.60, "PURSUE"},
		{0.45, "EVALUATE"},
		{0.30, "SELECTIVE"},
		{0.10, "MONITOR ONLY"},
	}
	for _, tt := range tests {
		if got := recommendation(tt.prob); !strings.HasPrefix(got, tt.prefix) {
			t.Errorf("recommendation(%v) = %q, want prefix %q", tt.prob, got, tt.prefix)
		}
	}
}
