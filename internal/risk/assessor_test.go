package risk

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/pkg/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestScoreToLevel_Bands(t *testing.T) {
	tests := []struct {
		score float64
		level models.RiskLevel
	}{
		{0.0, models.RiskLow},
		{0.25, models.RiskLow},
		{0.26, models.RiskMedium},
		{0.50, models.RiskMedium},
		{0.51, models.RiskHigh},
		{0.75, models.RiskHigh},
		{0.76, models.RiskCritical},
		{1.0, models.RiskCritical},
	}
	for _, tt := range tests {
		if got := ScoreToLevel(tt.score); got != tt.level {
			t.Errorf("ScoreToLevel(%v) = %v, want %v", tt.score, got, tt.level)
		}
	}
}

func TestDefaultCategoryWeights_SumToOne(t *testing.T) {
	if math.Abs(DefaultCategoryWeights().Sum()-1.0) > 1e-9 {
		t.Errorf("category weights sum to %v, want 1.0", DefaultCategoryWeights().Sum())
	}
}

func TestAssess_EligibleLowRisk(t *testing.T) {
	deadline := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	assessor := NewAssessor(DefaultCategoryWeights()).
		WithClock(fixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	org := &models.Organization{
		UEI:                   "ABC123DEF456",
		NAICSCodes:            []string{"541512"},
		SetAsideTypes:         []string{"SB"},
		State:                 "VA",
		CapabilitiesNarrative: "cloud services",
	}
	opp := &models.Opportunity{
		Title:                   "Cloud Migration",
		NAICSCode:               "541512",
		SetAsideType:            "SB",
		PlaceOfPerformanceState: "VA",
		ResponseDeadline:        &deadline,
	}

	result := assessor.Assess(org, opp)

	if result.EligibilityRisk.Level != models.RiskLow {
		t.Errorf("eligibility risk = %v, want low", result.EligibilityRisk.Level)
	}
	if result.EligibilityRisk.Score != 0.0 {
		t.Errorf("eligibility score = %v, want 0", result.EligibilityRisk.Score)
	}
}

func TestAssess_IneligibleSetAside(t *testing.T) {
	org := &models.Organization{
		UEI:           "ABC123DEF456",
		SetAsideTypes: []string{"SB"},
	}
	opp := &models.Opportunity{
		Title:        "8(a) Work",
		SetAsideType: "8A",
	}

	result := NewAssessor(DefaultCategoryWeights()).Assess(org, opp)

	if result.EligibilityRisk.Score < 0.75 {
		t.Errorf("eligibility score = %v, want >= high band", result.EligibilityRisk.Score)
	}
	found := false
	for _, f := range result.EligibilityRisk.Factors {
		if strings.Contains(strings.ToLower(f), "set-aside") {
			found = true
		}
	}
	if !found {
		t.Errorf("factors %v must mention set-aside ineligibility", result.EligibilityRisk.Factors)
	}
}

func TestAssess_DeadlinePassedIsTerminal(t *testing.T) {
	now := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, -1)

	assessor := NewAssessor(DefaultCategoryWeights()).WithClock(fixedClock(now))
	result := assessor.Assess(&models.Organization{UEI: "X"}, &models.Opportunity{
		Title:            "Late",
		ResponseDeadline: &deadline,
	})

	if result.TimelineRisk.Score != 1.0 {
		t.Errorf("timeline score = %v, want 1.0", result.TimelineRisk.Score)
	}
	if result.TimelineRisk.Level != models.RiskCritical {
		t.Errorf("timeline level = %v, want critical", result.TimelineRisk.Level)
	}
	found := false
	for _, f := range result.TimelineRisk.Factors {
		if strings.Contains(f, "deadline has passed") {
			found = true
		}
	}
	if !found {
		t.Errorf("factors %v must mention the passed deadline", result.TimelineRisk.Factors)
	}
}

func TestAssess_TimelineBands(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assessor := NewAssessor(DefaultCategoryWeights()).WithClock(fixedClock(now))

	tests := []struct {
		name     string
		days     int
		expected float64
	}{
		{"Urgent", 3, 0.7},
		{"Tight", 10, 0.4},
		{"Manageable", 20, 0.2},
		{"Comfortable", 60, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deadline := now.AddDate(0, 0, tt.days)
			result := assessor.Assess(&models.Organization{UEI: "X"}, &models.Opportunity{
				Title:            "x",
				ResponseDeadline: &deadline,
			})
			if result.TimelineRisk.Score != tt.expected {
				t.Errorf("timeline score = %v, want %v", result.TimelineRisk.Score, tt.expected)
			}
		})
	}

	// Missing deadline is a mild flag.
	result := assessor.Assess(&models.Organization{UEI: "X"}, &models.Opportunity{Title: "x"})
	if result.TimelineRisk.Score != 0.1 {
		t.Errorf("missing deadline: score = %v, want 0.1", result.TimelineRisk.Score)
	}
}

func TestAssess_TechnicalRisk(t *testing.T) {
	assessor := NewAssessor(DefaultCategoryWeights())

	// Sector mismatch.
	org := &models.Organization{UEI: "X", NAICSCodes: []string{"236220"}, CapabilitiesNarrative: "construction"}
	opp := &models.Opportunity{Title: "x", NAICSCode: "541512"}
	result := assessor.Assess(org, opp)
	if result.TechnicalRisk.Score != 0.5 {
		t.Errorf("sector mismatch: score = %v, want 0.5", result.TechnicalRisk.Score)
	}

	// Same sector, different industry group.
	org = &models.Organization{UEI: "X", NAICSCodes: []string{"541611"}, CapabilitiesNarrative: "consulting"}
	result = assessor.Assess(org, opp)
	if result.TechnicalRisk.Score != 0.2 {
		t.Errorf("adjacent group: score = %v, want 0.2", result.TechnicalRisk.Score)
	}

	// PSC mismatch and missing narrative stack.
	org = &models.Organization{UEI: "X", NAICSCodes: []string{"541512"}, PSCCodes: []string{"R499"}}
	opp = &models.Opportunity{Title: "x", NAICSCode: "541512", PSCCode: "D306"}
	result = assessor.Assess(org, opp)
	if result.TechnicalRisk.Score != 0.5 { // 0.3 PSC + 0.2 narrative
		t.Errorf("psc + narrative: score = %v, want 0.5", result.TechnicalRisk.Score)
	}
}

func TestAssess_PricingAndResource(t *testing.T) {
	assessor := NewAssessor(DefaultCategoryWeights())

	emp := 20
	org := &models.Organization{
		UEI:           "X",
		State:         "VA",
		EmployeeCount: &emp,
		AnnualRevenue: dec("2000000"),
	}
	opp := &models.Opportunity{
		Title:                   "Big Job",
		ContractType:            "CPFF",
		EstimatedValueMax:       dec("5000000"), // 2.5x revenue; ~33 implied staff
		PlaceOfPerformanceState: "CA",
	}

	result := assessor.Assess(org, opp)

	// 0.6 ratio over 2.0 + 0.2 cost-reimbursement.
	if result.PricingRisk.Score != 0.8 {
		t.Errorf("pricing score = %v, want 0.8", result.PricingRisk.Score)
	}
	// 0.4 staffing (33 > 10) + 0.2 out-of-state.
	if result.ResourceRisk.Score != 0.6 {
		t.Errorf("resource score = %v, want 0.6", result.ResourceRisk.Score)
	}
}

func TestAssess_ComplianceRisk(t *testing.T) {
	assessor := NewAssessor(DefaultCategoryWeights())

	org := &models.Organization{UEI: "X", CapabilitiesNarrative: "services"}
	opp := &models.Opportunity{
		Title:                     "Secure Systems",
		NAICSCode:                 "541512",
		ContractingOfficeName:     "Department of the Army",
		SecurityClearanceRequired: "Secret",
	}

	result := assessor.Assess(org, opp)

	// 0.2 DoD + 0.15 regulated 541 sector + 0.2 clearance.
	if math.Abs(result.ComplianceRisk.Score-0.55) > 1e-9 {
		t.Errorf("compliance score = %v, want 0.55", result.ComplianceRisk.Score)
	}
}

func TestAssess_CompositeAndMitigations(t *testing.T) {
	assessor := NewAssessor(DefaultCategoryWeights())

	org := &models.Organization{SetAsideTypes: []string{"SB"}} // no UEI
	opp := &models.Opportunity{
		Title:        "8(a) Work",
		SetAsideType: "8A",
	}

	result := assessor.Assess(org, opp)

	w := DefaultCategoryWeights()
	expected := result.EligibilityRisk.Score*w.Eligibility +
		result.TechnicalRisk.Score*w.Technical +
		result.PricingRisk.Score*w.Pricing +
		result.ResourceRisk.Score*w.Resource +
		result.ComplianceRisk.Score*w.Compliance +
		result.TimelineRisk.Score*w.Timeline
	if math.Abs(result.OverallRiskScore-expected) > 1e-4 {
		t.Errorf("overall %v != weighted sum %v", result.OverallRiskScore, expected)
	}
	if result.OverallRiskLevel != ScoreToLevel(result.OverallRiskScore) {
		t.Errorf("overall level %v does not match banding of %v", result.OverallRiskLevel, result.OverallRiskScore)
	}

	if len(result.MitigationSuggestions) == 0 {
		t.Fatal("expected mitigation suggestions")
	}
	if len(result.MitigationSuggestions) > 10 {
		t.Errorf("mitigations capped at 10, got %d", len(result.MitigationSuggestions))
	}
	seen := map[string]bool{}
	for _, m := range result.MitigationSuggestions {
		if seen[m] {
			t.Errorf("duplicate mitigation %q", m)
		}
		seen[m] = true
	}

	foundTeaming := false
	for _, m := range result.MitigationSuggestions {
		if strings.Contains(m, "teaming with an eligible prime") {
			foundTeaming = true
		}
	}
	if !foundTeaming {
		t.Errorf("mitigations %v must suggest teaming for set-aside ineligibility", result.MitigationSuggestions)
	}
}
