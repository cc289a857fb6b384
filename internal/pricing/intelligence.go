package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/internal/rules"
)

// Pricing Intelligence
//
// Recommends a price band for an opportunity from three anchors, in
// priority order:
//
//   1. Government estimate: bid 85-100% of the stated maximum.
//   2. NAICS benchmark: 80-120% of the median award.
//   3. Fallback constants: $250K - $2.5M.
//
// Competitive position classifies the band midpoint against the
// government estimate: <0.85 aggressive, <0.95 competitive, else premium.
// All monetary math is decimal; scores in [0,1] stay float.

// Fallback price band when neither an estimate nor a benchmark exists.
var (
	fallbackPriceMin = decimal.NewFromInt(250000)
	fallbackPriceMax = decimal.NewFromInt(2500000)
)

// PricingInput is the opportunity slice the recommender reads.
type PricingInput struct {
	OpportunityID     string           `json:"opportunityId"`
	NAICSCode         string           `json:"naicsCode"`
	Description       string           `json:"description"`
	SetAsideType      string           `json:"setAsideType"`
	ContractType      string           `json:"contractType"`
	EstimatedValueMin *decimal.Decimal `json:"estimatedValueMin,omitempty"`
	EstimatedValueMax *decimal.Decimal `json:"estimatedValueMax,omitempty"`
}

// Recommendation is the pricing guidance for one opportunity. Not
// persisted.
type Recommendation struct {
	OpportunityID       string                         `json:"opportunityId"`
	RecommendedPriceMin decimal.Decimal                `json:"recommendedPriceMin"`
	RecommendedPriceMax decimal.Decimal                `json:"recommendedPriceMax"`
	CompetitivePosition string                         `json:"competitivePosition"` // aggressive, competitive, premium
	Confidence          float64                        `json:"confidence"`
	Factors             map[string]any                 `json:"factors"`
	LaborRates          []rules.LaborRateBenchmark     `json:"laborRates"`
	Benchmarks          []rules.ContractValueBenchmark `json:"benchmarks"`
	Notes               []string                       `json:"notes"`
	GeneratedAt         time.Time                      `json:"generatedAt"`
}

// Service produces pricing recommendations and should-cost estimates.
// Stateless; safe for concurrent use.
type Service struct {
	log zerolog.Logger
}

// NewService builds a pricing service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "pricing").Logger()}
}

// Recommend generates the pricing recommendation for an opportunity.
func (s *Service) Recommend(input PricingInput, laborMix map[string]int) Recommendation {
	benchmark, hasBenchmark := rules.NAICSBenchmark(input.NAICSCode)
	laborRates := relevantLaborRates(input.NAICSCode, input.Description)

	recMin, recMax := recommendedPrice(input.EstimatedValueMax, benchmark, hasBenchmark)
	position := competitivePosition(recMin, recMax, input.EstimatedValueMax)

	benchmarks := []rules.ContractValueBenchmark{}
	if hasBenchmark {
		benchmarks = append(benchmarks, benchmark)
	}

	rec := Recommendation{
		OpportunityID:       input.OpportunityID,
		RecommendedPriceMin: recMin,
		RecommendedPriceMax: recMax,
		CompetitivePosition: position,
		Confidence:          confidence(hasBenchmark, benchmark, laborMix),
		Factors: map[string]any{
			"naics_code":              input.NAICSCode,
			"has_government_estimate": input.EstimatedValueMax != nil,
			"benchmark_available":     hasBenchmark,
			"labor_mix_provided":      laborMix != nil,
		},
		LaborRates:  laborRates,
		Benchmarks:  benchmarks,
		Notes:       pricingNotes(benchmark, hasBenchmark, input, position),
		GeneratedAt: time.Now().UTC(),
	}

	s.log.Debug().
		Str("opportunityId", input.OpportunityID).
		Str("position", position).
		Msg("pricing recommendation generated")

	return rec
}

// recommendedPrice picks the price band from the best available anchor.
func recommendedPrice(govEstimate *decimal.Decimal, benchmark rules.ContractValueBenchmark, hasBenchmark bool) (decimal.Decimal, decimal.Decimal) {
	if govEstimate != nil {
		return govEstimate.Mul(decimal.RequireFromString("0.85")),
			govEstimate.Mul(decimal.RequireFromString("1.00"))
	}
	if hasBenchmark {
		return benchmark.MedianValue.Mul(decimal.RequireFromString("0.8")),
			benchmark.MedianValue.Mul(decimal.RequireFromString("1.2"))
	}
	return fallbackPriceMin, fallbackPriceMax
}

// competitivePosition classifies the band midpoint against the government
// estimate.
func competitivePosition(recMin, recMax decimal.Decimal, govEstimate *decimal.Decimal) string {
	if govEstimate == nil || !govEstimate.IsPositive() {
		return "competitive"
	}

	mid := recMin.Add(recMax).Div(decimal.NewFromInt(2))
	ratio := mid.Div(*govEstimate)

	switch {
	case ratio.LessThan(decimal.RequireFromString("0.85")):
		return "aggressive"
	case ratio.LessThan(decimal.RequireFromString("0.95")):
		return "competitive"
	default:
		return "premium"
	}
}

// relevantLaborRates selects labor categories by NAICS prefix, augmented
// by description keywords.
func relevantLaborRates(naicsCode, description string) []rules.LaborRateBenchmark {
	desc := strings.ToLower(description)
	var categories []string

	switch {
	case strings.HasPrefix(naicsCode, "5415"): // IT services
		categories = []string{"program_manager", "project_manager", "senior_engineer", "engineer", "analyst"}
		if strings.Contains(desc, "security") || strings.Contains(desc, "cyber") {
			categories = append(categories, "security_engineer")
		}
		if strings.Contains(desc, "data") || strings.Contains(desc, "analytics") {
			categories = append(categories, "data_scientist")
		}
		if strings.Contains(desc, "cloud") || strings.Contains(desc, "aws") || strings.Contains(desc, "azure") {
			categories = append(categories, "cloud_architect")
		}
	case strings.HasPrefix(naicsCode, "5416"), strings.HasPrefix(naicsCode, "5412"): // consulting/accounting
		categories = []string{"consultant_senior", "consultant", "subject_matter_expert", "project_manager"}
	default:
		categories = []string{"project_manager", "consultant", "analyst"}
	}

	return rules.LaborRates(categories)
}

// confidence grows with benchmark quality and labor-mix availability.
func confidence(hasBenchmark bool, benchmark rules.ContractValueBenchmark, laborMix map[string]int) float64 {
	c := 0.5
	if hasBenchmark {
		c += 0.2
		if benchmark.SampleSize > 1000 {
			c += 0.1
		}
	}
	if laborMix != nil {
		c += 0.15
	}
	return math.Min(0.95, c)
}

// pricingNotes produces the advisory note list.
func pricingNotes(benchmark rules.ContractValueBenchmark, hasBenchmark bool, input PricingInput, position string) []string {
	var notes []string

	if input.EstimatedValueMax != nil {
		notes = append(notes, fmt.Sprintf("Government estimate: $%s", input.EstimatedValueMax.StringFixed(2)))
	} else {
		notes = append(notes, "No government estimate available - use benchmark data")
	}

	if hasBenchmark {
		notes = append(notes, fmt.Sprintf("NAICS %s median award: $%s (n=%d)",
			benchmark.NAICSCode, benchmark.MedianValue.StringFixed(2), benchmark.SampleSize))
	}

	if input.SetAsideType != "" {
		notes = append(notes, fmt.Sprintf("Set-aside: %s - price competitiveness may vary", input.SetAsideType))
	}

	ct := strings.ToLower(input.ContractType)
	if strings.Contains(ct, "ffp") || strings.Contains(ct, "firm fixed") {
		notes = append(notes, "Firm Fixed Price - ensure all costs are captured in pricing")
	} else if strings.Contains(ct, "t&m") || strings.Contains(ct, "time and material") {
		notes = append(notes, "T&M contract - focus on competitive labor rates")
	}

	notes = append(notes, fmt.Sprintf("Competitive position: %s", strings.ToUpper(position)))
	return notes
}
