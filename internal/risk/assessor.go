package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aureon/opportunity-engine/internal/rules"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// Bid/No-Bid Risk Assessor
//
// Composites six independent risk categories into an overall verdict:
//
//   eligibility  0.25   technical   0.20   pricing   0.15
//   resource     0.15   compliance  0.15   timeline  0.10
//
// Each category accumulates weighted risk points from its rules, clamps to
// [0, 1] and bands into a level:
//
//   <=0.25 low   <=0.50 medium   <=0.75 high   else critical
//
// Mitigation suggestions are derived from factor text, deduplicated in
// first-seen order and capped at 10.

// ModelVersion tags persisted assessments with the assessor revision.
const ModelVersion = "v1.0.0"

// maxMitigations caps the suggestion list.
const maxMitigations = 10

// revenuePerEmployee is the rough staffing heuristic: ~$150K of contract
// value per staff member per year.
const revenuePerEmployee = 150000

// CategoryWeights are the per-category weights for the overall score.
type CategoryWeights struct {
	Eligibility float64
	Technical   float64
	Pricing     float64
	Resource    float64
	Compliance  float64
	Timeline    float64
}

// DefaultCategoryWeights returns the standard category weighting.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		Eligibility: 0.25,
		Technical:   0.20,
		Pricing:     0.15,
		Resource:    0.15,
		Compliance:  0.15,
		Timeline:    0.10,
	}
}

// Sum returns the total of all category weights.
func (w CategoryWeights) Sum() float64 {
	return w.Eligibility + w.Technical + w.Pricing + w.Resource + w.Compliance + w.Timeline
}

// regulatedSectors maps 3-digit NAICS prefixes to their compliance notes.
// Only the first match contributes risk.
var regulatedSectors = []struct {
	prefix string
	note   string
}{
	{"541", "Professional services - may require specific certifications"},
	{"336", "Defense manufacturing - ITAR/EAR may apply"},
	{"562", "Environmental - EPA compliance required"},
	{"622", "Healthcare - HIPAA compliance required"},
}

// dodOfficeTerms flag DoD contracting offices for DFARS compliance.
var dodOfficeTerms = []string{"defense", "army", "navy", "air force", "dod"}

// Assessor computes risk assessments. Stateless apart from its weights;
// safe for concurrent use. The clock is injectable so timeline tests can
// pin "now".
type Assessor struct {
	weights CategoryWeights
	now     func() time.Time
}

// NewAssessor builds an assessor with the given weights. Zero-value
// weights fall back to the defaults.
func NewAssessor(weights CategoryWeights) *Assessor {
	if weights.Sum() == 0 {
		weights = DefaultCategoryWeights()
	}
	return &Assessor{weights: weights, now: time.Now}
}

// WithClock overrides the assessor's clock. Used by timeline tests.
func (a *Assessor) WithClock(now func() time.Time) *Assessor {
	a.now = now
	return a
}

// Assess performs the full six-category risk assessment. Pure apart from
// the clock.
func (a *Assessor) Assess(org *models.Organization, opp *models.Opportunity) models.RiskAssessment {
	eligibility := a.assessEligibility(org, opp)
	technical := a.assessTechnical(org, opp)
	pricing := a.assessPricing(org, opp)
	resource := a.assessResource(org, opp)
	compliance := a.assessCompliance(org, opp)
	timeline := a.assessTimeline(opp)

	overall := eligibility.Score*a.weights.Eligibility +
		technical.Score*a.weights.Technical +
		pricing.Score*a.weights.Pricing +
		resource.Score*a.weights.Resource +
		compliance.Score*a.weights.Compliance +
		timeline.Score*a.weights.Timeline

	var allFactors []string
	for _, cat := range []models.RiskCategory{eligibility, technical, pricing, resource, compliance, timeline} {
		allFactors = append(allFactors, cat.Factors...)
	}

	return models.RiskAssessment{
		OrganizationID:        org.ID,
		OpportunityID:         opp.ID,
		OverallRiskLevel:      ScoreToLevel(overall),
		OverallRiskScore:      round4(overall),
		EligibilityRisk:       eligibility,
		TechnicalRisk:         technical,
		PricingRisk:           pricing,
		ResourceRisk:          resource,
		ComplianceRisk:        compliance,
		TimelineRisk:          timeline,
		RiskFactors:           allFactors,
		MitigationSuggestions: mitigations(eligibility, technical, pricing, resource, compliance, timeline),
		ModelVersion:          ModelVersion,
	}
}

// ScoreToLevel bands a risk score into its level.
func ScoreToLevel(score float64) models.RiskLevel {
	switch {
	case score <= 0.25:
		return models.RiskLow
	case score <= 0.50:
		return models.RiskMedium
	case score <= 0.75:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

func category(score float64, factors []string) models.RiskCategory {
	score = math.Min(1.0, score)
	if factors == nil {
		factors = []string{}
	}
	return models.RiskCategory{
		Level:   ScoreToLevel(score),
		Score:   round4(score),
		Factors: factors,
	}
}

// assessEligibility: set-aside qualification (+0.8), Secret/TS clearance
// requirement (+0.4), missing UEI (+0.3).
func (a *Assessor) assessEligibility(org *models.Organization, opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if opp.SetAsideType != "" {
		if !rules.IsSetAsideEligible(opp.SetAsideType, org.SetAsideTypes) {
			factors = append(factors, fmt.Sprintf("Not eligible for %s set-aside", opp.SetAsideType))
			score += 0.8
		}
	}

	if opp.SecurityClearanceRequired != "" {
		clearance := strings.ToLower(opp.SecurityClearanceRequired)
		if strings.Contains(clearance, "secret") || strings.Contains(clearance, "ts/sci") {
			factors = append(factors, fmt.Sprintf("Requires %s clearance", opp.SecurityClearanceRequired))
			score += 0.4
		}
	}

	if org.UEI == "" {
		factors = append(factors, "No UEI on file - SAM.gov registration may be needed")
		score += 0.3
	}

	return category(score, factors)
}

// assessTechnical: NAICS sector mismatch (+0.5), same sector but not
// 4-digit group (+0.2), PSC 2-digit mismatch (+0.3), missing capabilities
// narrative (+0.2).
func (a *Assessor) assessTechnical(org *models.Organization, opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if opp.NAICSCode != "" && len(org.NAICSCodes) > 0 && len(opp.NAICSCode) >= 4 {
		sector := opp.NAICSCode[:2]
		group := opp.NAICSCode[:4]

		sectorMatch, groupMatch := false, false
		for _, n := range org.NAICSCodes {
			if strings.HasPrefix(n, sector) {
				sectorMatch = true
			}
			if strings.HasPrefix(n, group) {
				groupMatch = true
			}
		}

		if !sectorMatch {
			factors = append(factors, fmt.Sprintf("NAICS %s outside core competencies", opp.NAICSCode))
			score += 0.5
		} else if !groupMatch {
			factors = append(factors, fmt.Sprintf("NAICS %s is adjacent to core codes", opp.NAICSCode))
			score += 0.2
		}
	}

	if opp.PSCCode != "" && len(org.PSCCodes) > 0 && len(opp.PSCCode) >= 2 {
		prefix := opp.PSCCode[:2]
		match := false
		for _, p := range org.PSCCodes {
			if strings.HasPrefix(p, prefix) {
				match = true
				break
			}
		}
		if !match {
			factors = append(factors, fmt.Sprintf("PSC %s may require new capabilities", opp.PSCCode))
			score += 0.3
		}
	}

	if org.CapabilitiesNarrative == "" {
		factors = append(factors, "No capabilities narrative on file for evaluation")
		score += 0.2
	}

	return category(score, factors)
}

// assessPricing: value/revenue ratio over 2.0 (+0.6) or over 1.0 (+0.3),
// cost-reimbursement contract keywords (+0.2), sources-sought notice
// (+0.1).
func (a *Assessor) assessPricing(org *models.Organization, opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if opp.EstimatedValueMax != nil && org.AnnualRevenue != nil && org.AnnualRevenue.IsPositive() {
		ratio := opp.EstimatedValueMax.Div(*org.AnnualRevenue).InexactFloat64()
		if ratio > 2.0 {
			factors = append(factors, fmt.Sprintf("Contract value (%.1fx revenue) may exceed capacity", ratio))
			score += 0.6
		} else if ratio > 1.0 {
			factors = append(factors, fmt.Sprintf("Contract value is %.1fx annual revenue - significant commitment", ratio))
			score += 0.3
		}
	}

	if opp.ContractType != "" {
		ct := strings.ToLower(opp.ContractType)
		if strings.Contains(ct, "cost") || strings.Contains(ct, "cpff") || strings.Contains(ct, "cpaf") {
			factors = append(factors, "Cost-reimbursement contract requires robust accounting systems")
			score += 0.2
		}
	}

	if opp.NoticeType != "" && strings.Contains(strings.ToLower(opp.NoticeType), "sources sought") {
		factors = append(factors, "Early stage - competition level unknown")
		score += 0.1
	}

	return category(score, factors)
}

// assessResource: implied staffing (value/150K) over half the workforce
// (+0.4) or over 30% (+0.2); out-of-state performance (+0.2).
func (a *Assessor) assessResource(org *models.Organization, opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if org.EmployeeCount != nil && *org.EmployeeCount > 0 && opp.EstimatedValueMax != nil {
		empCount := float64(*org.EmployeeCount)
		impliedStaff := opp.EstimatedValueMax.InexactFloat64() / revenuePerEmployee

		if impliedStaff > empCount*0.5 {
			factors = append(factors, fmt.Sprintf("May require ~%.0f staff (%d current employees)", impliedStaff, *org.EmployeeCount))
			score += 0.4
		} else if impliedStaff > empCount*0.3 {
			factors = append(factors, "Significant staffing effort required")
			score += 0.2
		}
	}

	if opp.PlaceOfPerformanceState != "" {
		oppState := strings.ToUpper(opp.PlaceOfPerformanceState)
		orgState := strings.ToUpper(org.State)
		if orgState != "" && oppState != orgState {
			factors = append(factors, fmt.Sprintf("Performance in %s (org based in %s)", oppState, orgState))
			score += 0.2
		}
	}

	return category(score, factors)
}

// assessCompliance: DoD office (+0.2), regulated NAICS sector (+0.15,
// first match only), any security clearance requirement (+0.2).
func (a *Assessor) assessCompliance(org *models.Organization, opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if opp.ContractingOfficeName != "" {
		office := strings.ToLower(opp.ContractingOfficeName)
		for _, term := range dodOfficeTerms {
			if strings.Contains(office, term) {
				factors = append(factors, "DoD contract - DFARS compliance required")
				score += 0.2
				break
			}
		}
	}

	if len(opp.NAICSCode) >= 3 {
		prefix := opp.NAICSCode[:3]
		for _, sector := range regulatedSectors {
			if strings.HasPrefix(prefix, sector.prefix) {
				factors = append(factors, sector.note)
				score += 0.15
				break
			}
		}
	}

	if opp.SecurityClearanceRequired != "" {
		factors = append(factors, "Facility clearance and security protocols required")
		score += 0.2
	}

	return category(score, factors)
}

// assessTimeline: no deadline (+0.1); a passed deadline is terminal (1.0);
// otherwise days-remaining bands <7 (+0.7), <14 (+0.4), <30 (+0.2).
func (a *Assessor) assessTimeline(opp *models.Opportunity) models.RiskCategory {
	var factors []string
	score := 0.0

	if opp.ResponseDeadline == nil {
		factors = append(factors, "No response deadline specified")
		return category(0.1, factors)
	}

	now := a.now()
	daysRemaining := int(opp.ResponseDeadline.Sub(now).Hours() / 24)

	switch {
	case opp.ResponseDeadline.Before(now):
		factors = append(factors, "Response deadline has passed")
		score = 1.0
	case daysRemaining < 7:
		factors = append(factors, fmt.Sprintf("Only %d days until deadline - urgent", daysRemaining))
		score += 0.7
	case daysRemaining < 14:
		factors = append(factors, fmt.Sprintf("%d days until deadline - tight timeline", daysRemaining))
		score += 0.4
	case daysRemaining < 30:
		factors = append(factors, fmt.Sprintf("%d days until deadline - manageable", daysRemaining))
		score += 0.2
	}

	return category(score, factors)
}

// mitigationRule maps a factor substring to a suggestion, gated on the
// owning category reaching a minimum score.
type mitigationRule struct {
	minScore    float64
	substring   string
	suggestions []string
}

var mitigationRules = map[string][]mitigationRule{
	"eligibility": {
		{0.5, "set-aside", []string{"Consider teaming with an eligible prime contractor"}},
		{0.5, "clearance", []string{"Initiate facility clearance process if not already in progress"}},
		{0.5, "uei", []string{"Complete SAM.gov registration immediately"}},
	},
	"technical": {
		{0.4, "naics", []string{"Document relevant past performance in adjacent NAICS codes"}},
		{0.4, "capabilities", []string{"Update capability statement before submission"}},
	},
	"pricing": {
		{0.4, "capacity", []string{"Consider teaming or subcontracting to share risk"}},
		{0.4, "revenue", []string{"Consider teaming or subcontracting to share risk"}},
		{0.4, "accounting", []string{"Verify DCAA-compliant accounting system is in place"}},
	},
	"resource": {
		{0.4, "staff", []string{
			"Identify key personnel and confirm availability",
			"Develop recruitment pipeline for required positions",
		}},
		{0.4, "performance in", []string{"Consider local subcontractor or satellite office"}},
	},
	"compliance": {
		{0.3, "dfars", []string{"Review DFARS flowdown requirements with contracts team"}},
		{0.3, "hipaa", []string{"Engage compliance officer for regulatory review"}},
		{0.3, "itar", []string{"Engage compliance officer for regulatory review"}},
	},
	"timeline": {
		{0.5, "urgent", []string{
			"Assign dedicated proposal team immediately",
			"Request extension if allowable under solicitation",
		}},
		{0.5, "tight", []string{
			"Assign dedicated proposal team immediately",
			"Request extension if allowable under solicitation",
		}},
	},
}

// mitigationOrder fixes the category scan order so the output is stable.
var mitigationOrder = []string{"eligibility", "technical", "pricing", "resource", "compliance", "timeline"}

// mitigations derives suggestions from each category's factors,
// deduplicated preserving first-seen order and capped at maxMitigations.
func mitigations(eligibility, technical, pricing, resource, compliance, timeline models.RiskCategory) []string {
	byName := map[string]models.RiskCategory{
		"eligibility": eligibility,
		"technical":   technical,
		"pricing":     pricing,
		"resource":    resource,
		"compliance":  compliance,
		"timeline":    timeline,
	}

	seen := make(map[string]bool)
	out := []string{}

	for _, name := range mitigationOrder {
		cat := byName[name]
		for _, factor := range cat.Factors {
			lower := strings.ToLower(factor)
			for _, rule := range mitigationRules[name] {
				if cat.Score < rule.minScore || !strings.Contains(lower, rule.substring) {
					continue
				}
				for _, suggestion := range rule.suggestions {
					if seen[suggestion] {
						continue
					}
					seen[suggestion] = true
					out = append(out, suggestion)
				}
			}
		}
	}

	if len(out) > maxMitigations {
		out = out[:maxMitigations]
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
