package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/aureon/opportunity-engine/internal/rules"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// Win-Probability Model
//
// Seven weighted factors predict the probability of winning an
// opportunity:
//
//   capability_match      0.20   setaside_eligibility  0.20
//   past_performance      0.20   agency_relationship   0.15
//   geographic_fit        0.10   competition_level     0.10
//   pricing_position      0.05
//
// Each factor yields a score in [0, 1] plus a one-line analysis. The
// weighted sum is banded into a pursuit recommendation; confidence grows
// with data completeness and with strongly-signalled factors, capped at
// 0.95.

// WinFactorWeights are the per-factor weights, keyed by factor name. They
// must sum to 1.0.
type WinFactorWeights map[string]float64

// DefaultWinFactorWeights returns the standard factor weighting.
func DefaultWinFactorWeights() WinFactorWeights {
	return WinFactorWeights{
		"capability_match":     0.20,
		"setaside_eligibility": 0.20,
		"past_performance":     0.20,
		"agency_relationship":  0.15,
		"geographic_fit":       0.10,
		"competition_level":    0.10,
		"pricing_position":     0.05,
	}
}

// Sum returns the total weight.
func (w WinFactorWeights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// WinProbabilityResult is the model output for one pair.
type WinProbabilityResult struct {
	OpportunityID  string             `json:"opportunityId"`
	WinProbability float64            `json:"winProbability"`
	MatchScore     float64            `json:"matchScore"`
	Factors        map[string]float64 `json:"factors"`
	Recommendation string             `json:"recommendation"`
	Confidence     float64            `json:"confidence"`
	Analysis       map[string]string  `json:"analysis"`
}

// WinProbabilityModel predicts win probability. Stateless apart from its
// weights; safe for concurrent use.
type WinProbabilityModel struct {
	weights WinFactorWeights
}

// NewWinProbabilityModel builds a model with the given weights; nil falls
// back to the defaults.
func NewWinProbabilityModel(weights WinFactorWeights) *WinProbabilityModel {
	if weights == nil {
		weights = DefaultWinFactorWeights()
	}
	return &WinProbabilityModel{weights: weights}
}

// Predict computes the win probability for an (organization, opportunity)
// pair. Pure: no I/O, deterministic given the inputs.
func (m *WinProbabilityModel) Predict(org *models.Organization, opp *models.Opportunity) WinProbabilityResult {
	factors := make(map[string]float64, len(m.weights))
	analysis := make(map[string]string, len(m.weights))

	score := func(name string, fn func() (float64, string)) {
		s, a := fn()
		factors[name] = Round4(s)
		analysis[name] = a
	}

	score("capability_match", func() (float64, string) { return m.capabilityMatch(org, opp) })
	score("setaside_eligibility", func() (float64, string) { return m.setAsideEligibility(org, opp) })
	score("past_performance", func() (float64, string) { return m.pastPerformance(org, opp) })
	score("agency_relationship", func() (float64, string) { return m.agencyRelationship(org, opp) })
	score("geographic_fit", func() (float64, string) { return m.geographicFit(org, opp) })
	score("competition_level", func() (float64, string) { return m.competitionLevel(opp) })
	score("pricing_position", func() (float64, string) { return m.pricingPosition(org, opp) })

	winProb := 0.0
	for name, s := range factors {
		winProb += s * m.weights[name]
	}

	return WinProbabilityResult{
		OpportunityID:  opp.ID.String(),
		WinProbability: Round4(winProb),
		MatchScore:     Round4((factors["capability_match"] + factors["setaside_eligibility"]) / 2),
		Factors:        factors,
		Recommendation: recommendation(winProb),
		Confidence:     Round4(m.confidence(org, opp, factors)),
		Analysis:       analysis,
	}
}

// capabilityMatch: NAICS prefix score, +0.15 for an exact PSC match,
// +0.10 when at least 4 capability keywords from the organization's
// narrative appear in the opportunity description. Clamped to 1.0.
func (m *WinProbabilityModel) capabilityMatch(org *models.Organization, opp *models.Opportunity) (float64, string) {
	score := 0.0
	var reasons []string

	if opp.NAICSCode != "" && len(org.NAICSCodes) > 0 {
		score = rules.MatchNAICS(opp.NAICSCode, org.NAICSCodes)
		switch {
		case score >= 1.0:
			reasons = append(reasons, fmt.Sprintf("Exact NAICS %s match", strings.TrimSpace(opp.NAICSCode)))
		case score >= 0.9:
			reasons = append(reasons, "Strong NAICS match (5-digit)")
		case score >= 0.75:
			reasons = append(reasons, "Good NAICS match (4-digit)")
		case score >= 0.5:
			reasons = append(reasons, "Partial NAICS match (3-digit)")
		case score >= 0.25:
			reasons = append(reasons, "Related industry sector")
		}
	}

	if opp.PSCCode != "" {
		for _, psc := range org.PSCCodes {
			if psc == opp.PSCCode {
				score = math.Min(1.0, score+0.15)
				reasons = append(reasons, fmt.Sprintf("PSC %s match", opp.PSCCode))
				break
			}
		}
	}

	if org.CapabilitiesNarrative != "" && opp.Description != "" {
		keywords := rules.Tokenize(org.CapabilitiesNarrative, rules.MinKeywordLen)
		descLower := strings.ToLower(opp.Description)
		matches := 0
		for kw := range keywords {
			if strings.Contains(descLower, kw) {
				matches++
			}
		}
		if matches > 3 {
			score = math.Min(1.0, score+0.1)
			reasons = append(reasons, fmt.Sprintf("Strong keyword alignment (%d matches)", matches))
		}
	}

	if len(reasons) == 0 {
		return score, "Limited capability data for analysis"
	}
	return score, strings.Join(reasons, "; ")
}

// setAsideEligibility: 1.0 eligible, 0.1 required-but-ineligible, 0.6 open
// competition, 0.3/0.5 for the partial-data cases.
func (m *WinProbabilityModel) setAsideEligibility(org *models.Organization, opp *models.Opportunity) (float64, string) {
	if strings.TrimSpace(opp.SetAsideType) == "" {
		return 0.6, "Full and open competition - no set-aside restrictions"
	}

	if len(org.SetAsideTypes) == 0 {
		required := strings.ToUpper(opp.SetAsideType)
		if strings.Contains(required, "SB") || strings.Contains(required, "SMALL") {
			return 0.3, fmt.Sprintf("Set-aside type '%s' - eligibility unknown", opp.SetAsideType)
		}
		return 0.5, "No set-aside certifications on file"
	}

	if rules.IsSetAsideEligible(opp.SetAsideType, org.SetAsideTypes) {
		return 1.0, fmt.Sprintf("Eligible for %s set-aside", opp.SetAsideType)
	}
	return 0.1, fmt.Sprintf("Not eligible for %s set-aside", opp.SetAsideType)
}

// winContractTypeKeywords is the contract-type vocabulary for the
// past-performance factor.
var winContractTypeKeywords = []struct {
	contractType string
	keywords     []string
}{
	{"ffp", []string{"fixed", "firm"}},
	{"t&m", []string{"time", "materials"}},
	{"cpff", []string{"cost", "plus"}},
	{"idiq", []string{"idiq", "task order"}},
}

// pastPerformance: base 0.4 for having a narrative, +0.2 for
// NAICS-description overlap, +0.2 for contracting-office overlap, +0.15
// for contract-type vocabulary match. Clamped to 1.0.
func (m *WinProbabilityModel) pastPerformance(org *models.Organization, opp *models.Opportunity) (float64, string) {
	if strings.TrimSpace(org.PastPerformanceSummary) == "" {
		return 0.4, "No past performance summary on file"
	}

	summary := strings.ToLower(org.PastPerformanceSummary)
	score := 0.4
	var reasons []string

	if opp.NAICSCode != "" {
		if anyWordIn(strings.ToLower(opp.NAICSDescription), 3, 3, summary) {
			score += 0.2
			reasons = append(reasons, "Relevant industry experience")
		}
	}

	if opp.ContractingOfficeName != "" {
		if anyWordIn(strings.ToLower(opp.ContractingOfficeName), 2, 3, summary) {
			score += 0.2
			reasons = append(reasons, "Agency experience")
		}
	}

	if opp.ContractType != "" {
		ct := strings.ToLower(opp.ContractType)
		for _, entry := range winContractTypeKeywords {
			if !strings.Contains(ct, entry.contractType) {
				continue
			}
			for _, kw := range entry.keywords {
				if strings.Contains(summary, kw) {
					score += 0.15
					reasons = append(reasons, fmt.Sprintf("%s contract experience", strings.ToUpper(entry.contractType)))
					break
				}
			}
			break
		}
	}

	analysis := "General past performance on file"
	if len(reasons) > 0 {
		analysis = strings.Join(reasons, "; ")
	}
	return math.Min(1.0, score), analysis
}

// agencyKeywords tags contracting offices by agency family.
var agencyKeywords = []struct {
	agency   string
	keywords []string
}{
	{"dod", []string{"defense", "army", "navy", "air force", "marine", "pentagon"}},
	{"va", []string{"veterans", "va ", "vha", "vba"}},
	{"dhs", []string{"homeland", "fema", "tsa", "ice", "cbp"}},
	{"hhs", []string{"health", "human services", "cdc", "fda", "nih"}},
	{"gsa", []string{"gsa", "federal acquisition", "public building"}},
	{"doj", []string{"justice", "fbi", "dea", "atf", "marshal"}},
	{"treasury", []string{"treasury", "irs", "mint"}},
}

// agencyRelationship: 0.8 when the narrative shares the office's agency
// tag, 0.5 for a substantial narrative with no tag hit, 0.3 otherwise.
func (m *WinProbabilityModel) agencyRelationship(org *models.Organization, opp *models.Opportunity) (float64, string) {
	if opp.ContractingOfficeName == "" {
		return 0.5, "Contracting office not specified"
	}
	if strings.TrimSpace(org.PastPerformanceSummary) == "" {
		return 0.3, "No agency relationship history available"
	}

	office := strings.ToLower(opp.ContractingOfficeName)
	pp := strings.ToLower(org.PastPerformanceSummary)

	for _, entry := range agencyKeywords {
		officeHit := false
		for _, kw := range entry.keywords {
			if strings.Contains(office, kw) {
				officeHit = true
				break
			}
		}
		if !officeHit {
			continue
		}
		for _, kw := range entry.keywords {
			if strings.Contains(pp, kw) {
				return 0.8, fmt.Sprintf("Prior %s experience", strings.ToUpper(entry.agency))
			}
		}
		break
	}

	if len(pp) > 100 {
		return 0.5, "General federal contracting experience"
	}
	return 0.3, "No direct agency relationship identified"
}

// geographicFit: 1.0 same state, 0.9 DC-metro pair, 0.75 adjacent, 0.8
// remote/telework eligible, 0.4 otherwise; 0.6 on missing data.
func (m *WinProbabilityModel) geographicFit(org *models.Organization, opp *models.Opportunity) (float64, string) {
	orgState := strings.ToUpper(strings.TrimSpace(org.State))
	oppState := strings.ToUpper(strings.TrimSpace(opp.PlaceOfPerformanceState))

	if orgState == "" || oppState == "" {
		return 0.6, "Geographic location not specified"
	}
	if orgState == oppState {
		return 1.0, fmt.Sprintf("Located in %s", oppState)
	}
	if rules.InDCArea(orgState) && rules.InDCArea(oppState) {
		return 0.9, "DC metro area presence"
	}
	if rules.AreStatesAdjacent(orgState, oppState) {
		return 0.75, fmt.Sprintf("Adjacent to %s", oppState)
	}
	if opp.Description != "" {
		desc := strings.ToLower(opp.Description)
		if strings.Contains(desc, "remote") || strings.Contains(desc, "telework") {
			return 0.8, "Remote/telework eligible"
		}
	}
	return 0.4, fmt.Sprintf("Located in %s, opportunity in %s", orgState, oppState)
}

// competitionLevel reads the notice type for competition signals.
func (m *WinProbabilityModel) competitionLevel(opp *models.Opportunity) (float64, string) {
	if opp.NoticeType == "" {
		return 0.5, "Competition level unknown"
	}

	notice := strings.ToLower(opp.NoticeType)
	switch {
	case strings.Contains(notice, "sole source") || strings.Contains(notice, "j&a"):
		return 0.2, "Sole source - pre-selected vendor likely"
	case strings.Contains(notice, "sources sought") || strings.Contains(notice, "rfi"):
		return 0.7, "Market research phase - early opportunity"
	case strings.Contains(notice, "presolicitation"):
		return 0.6, "Presolicitation - good time for positioning"
	case strings.Contains(notice, "combined") || strings.Contains(notice, "solicitation"):
		return 0.5, "Active solicitation - competitive"
	case strings.Contains(notice, "award"):
		return 0.1, "Award notice - opportunity closed"
	}
	return 0.5, "Standard competition expected"
}

// pricingPosition bands the contract value to revenue ratio.
func (m *WinProbabilityModel) pricingPosition(org *models.Organization, opp *models.Opportunity) (float64, string) {
	if opp.EstimatedValueMax == nil || org.AnnualRevenue == nil || !org.AnnualRevenue.IsPositive() {
		return 0.6, "Contract value or revenue data unavailable"
	}

	ratio := opp.EstimatedValueMax.Div(*org.AnnualRevenue).InexactFloat64()
	pct := ratio * 100

	switch {
	case ratio < 0.1:
		return 0.9, fmt.Sprintf("Contract size (%.1f%% of revenue) - very manageable", pct)
	case ratio < 0.3:
		return 1.0, fmt.Sprintf("Ideal contract size (%.1f%% of revenue)", pct)
	case ratio < 0.5:
		return 0.85, fmt.Sprintf("Good fit (%.1f%% of revenue)", pct)
	case ratio < 1.0:
		return 0.6, fmt.Sprintf("Stretch opportunity (%.1f%% of revenue)", pct)
	case ratio < 2.0:
		return 0.4, fmt.Sprintf("Significant commitment (%.1f%% of revenue)", pct)
	default:
		return 0.2, fmt.Sprintf("Contract may exceed capacity (%.1f%% of revenue)", pct)
	}
}

// recommendation bands the win probability into pursuit guidance.
func recommendation(winProb float64) string {
	switch {
	case winProb >= 0.70:
		return "STRONG PURSUE - High probability opportunity aligned with capabilities"
	case winProb >= 0.55:
		return "PURSUE - Good fit, develop strong differentiators"
	case winProb >= 0.40:
		return "EVALUATE - Consider teaming or targeted pursuit"
	case winProb >= 0.25:
		return "SELECTIVE - Only pursue if strategically important"
	default:
		return "MONITOR ONLY - Low probability, preserve bid resources"
	}
}

// confidence starts at 0.5, grows with data completeness, gains +0.02 per
// strongly-signalled factor (below 0.2 or above 0.8), and caps at 0.95.
func (m *WinProbabilityModel) confidence(org *models.Organization, opp *models.Opportunity, factors map[string]float64) float64 {
	confidence := 0.5

	if len(org.NAICSCodes) > 0 {
		confidence += 0.1
	}
	if org.PastPerformanceSummary != "" {
		confidence += 0.1
	}
	if len(org.SetAsideTypes) > 0 {
		confidence += 0.05
	}
	if org.AnnualRevenue != nil {
		confidence += 0.05
	}

	if opp.NAICSCode != "" {
		confidence += 0.05
	}
	if len(opp.Description) > 100 {
		confidence += 0.05
	}
	if opp.EstimatedValueMax != nil {
		confidence += 0.05
	}

	for _, v := range factors {
		if v > 0.8 || v < 0.2 {
			confidence += 0.02
		}
	}

	return math.Min(0.95, confidence)
}
