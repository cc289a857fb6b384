package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/aureon/opportunity-engine/internal/rules"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// Multi-Factor Relevance Scorer
//
// Composites five sub-scores into an overall organization-opportunity
// relevance score in [0, 1]:
//
//   NAICS alignment        0.25  (shared code prefix depth)
//   Semantic similarity    0.30  (scaled Jaccard over token sets)
//   Geographic proximity   0.15  (same state / adjacency / DC hub)
//   Size & eligibility     0.15  (set-aside lattice + value/revenue ratio)
//   Past performance       0.15  (narrative keyword heuristics)
//
// Missing optional data never errors; each sub-score substitutes a neutral
// value instead. All scalars are rounded to 4 decimals before storage.

// ModelVersion tags persisted scores with the scorer revision.
const ModelVersion = "v1.0.0"

// Weights are the relevance component weights. They must sum to 1.0.
type Weights struct {
	NAICS           float64
	Semantic        float64
	Geographic      float64
	Size            float64
	PastPerformance float64
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{
		NAICS:           0.25,
		Semantic:        0.30,
		Geographic:      0.15,
		Size:            0.15,
		PastPerformance: 0.15,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.NAICS + w.Semantic + w.Geographic + w.Size + w.PastPerformance
}

// Map renders the weights in the wire shape stored alongside each score.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"naics":            w.NAICS,
		"semantic":         w.Semantic,
		"geographic":       w.Geographic,
		"size":             w.Size,
		"past_performance": w.PastPerformance,
	}
}

// RelevanceScorer computes relevance scores. Stateless apart from its
// weights; safe for concurrent use.
type RelevanceScorer struct {
	weights Weights
}

// NewRelevanceScorer builds a scorer with the given weights. Zero-value
// weights fall back to the defaults.
func NewRelevanceScorer(weights Weights) *RelevanceScorer {
	if weights.Sum() == 0 {
		weights = DefaultWeights()
	}
	return &RelevanceScorer{weights: weights}
}

// Score computes the full relevance result for an (organization,
// opportunity) pair. Pure: no I/O, deterministic given the inputs.
func (s *RelevanceScorer) Score(org *models.Organization, opp *models.Opportunity) models.RelevanceScore {
	naics := rules.MatchNAICS(opp.NAICSCode, org.NAICSCodes)
	semantic := s.semanticScore(org, opp)
	geographic := s.geographicScore(org, opp)
	size := s.sizeScore(org, opp)
	pastPerf := s.pastPerformanceScore(org, opp)

	overall := naics*s.weights.NAICS +
		semantic*s.weights.Semantic +
		geographic*s.weights.Geographic +
		size*s.weights.Size +
		pastPerf*s.weights.PastPerformance

	return models.RelevanceScore{
		OrganizationID:       org.ID,
		OpportunityID:        opp.ID,
		OverallScore:         Round4(overall),
		NAICSScore:           Round4(naics),
		SemanticScore:        Round4(semantic),
		GeographicScore:      Round4(geographic),
		SizeScore:            Round4(size),
		PastPerformanceScore: Round4(pastPerf),
		ComponentWeights:     s.weights.Map(),
		Explanation:          s.explain(naics, semantic, geographic, size, overall),
		ModelVersion:         ModelVersion,
	}
}

// semanticScore is the scaled Jaccard similarity between the organization's
// narrative text and the opportunity's title+description. Pure Jaccard is
// typically low (a good match runs 0.1-0.3), so it is scaled x5 and capped.
func (s *RelevanceScorer) semanticScore(org *models.Organization, opp *models.Opportunity) float64 {
	orgText := strings.TrimSpace(org.CapabilitiesNarrative + " " + org.PastPerformanceSummary)
	oppText := strings.TrimSpace(opp.Title + " " + opp.Description)

	if orgText == "" || oppText == "" {
		return 0.5
	}

	orgTokens := rules.Tokenize(orgText, rules.MinTokenLen)
	oppTokens := rules.Tokenize(oppText, rules.MinTokenLen)
	if len(orgTokens) == 0 || len(oppTokens) == 0 {
		return 0.5
	}

	return math.Min(1.0, rules.Jaccard(orgTokens, oppTokens)*5)
}

// geographicScore: same state 1.0, adjacent 0.8, either side in the DC hub
// 0.7, otherwise 0.4. Missing data scores 0.6 (slight positive for
// flexibility).
func (s *RelevanceScorer) geographicScore(org *models.Organization, opp *models.Opportunity) float64 {
	orgState := strings.ToUpper(strings.TrimSpace(org.State))
	oppState := strings.ToUpper(strings.TrimSpace(opp.PlaceOfPerformanceState))

	if orgState == "" || oppState == "" {
		return 0.6
	}
	if orgState == oppState {
		return 1.0
	}
	if rules.AreStatesAdjacent(orgState, oppState) {
		return 0.8
	}
	if rules.InDCArea(orgState) || rules.InDCArea(oppState) {
		return 0.7
	}
	return 0.4
}

// sizeScore starts at 1.0, clamps to 0.2 on set-aside ineligibility, then
// takes min(current, capacity) where capacity bands the contract value to
// annual revenue ratio. The min ordering is deliberate: neither rule can
// raise a score the other lowered.
func (s *RelevanceScorer) sizeScore(org *models.Organization, opp *models.Opportunity) float64 {
	score := 1.0

	if opp.SetAsideType != "" && len(org.SetAsideTypes) > 0 {
		if _, known := rules.EligibleCertifications(opp.SetAsideType); known {
			if !rules.IsSetAsideEligible(opp.SetAsideType, org.SetAsideTypes) {
				score = 0.2
			}
		}
	}

	if opp.EstimatedValueMax != nil && org.AnnualRevenue != nil && org.AnnualRevenue.IsPositive() {
		ratio := opp.EstimatedValueMax.Div(*org.AnnualRevenue).InexactFloat64()
		score = math.Min(score, capacityScore(ratio))
	}

	return score
}

// capacityScore bands the value/revenue ratio. The ideal contract is
// 10-50% of annual revenue.
func capacityScore(ratio float64) float64 {
	switch {
	case ratio < 0.1:
		return 0.95 // very manageable
	case ratio < 0.5:
		return 1.0 // ideal range
	case ratio < 1.0:
		return 0.8 // stretch but doable
	case ratio < 2.0:
		return 0.5 // significant stretch
	default:
		return 0.2 // likely too large
	}
}

// contractTypeKeywords is the fixed vocabulary for the past-performance
// contract-type check.
var contractTypeKeywords = []struct {
	contractType string
	keywords     []string
}{
	{"firm-fixed", []string{"fixed", "ffp"}},
	{"time-and-materials", []string{"time", "materials", "t&m"}},
	{"cost-plus", []string{"cost", "plus", "cpff", "cpaf"}},
	{"idiq", []string{"idiq", "indefinite", "delivery"}},
}

// pastPerformanceScore runs up to three heuristic checks against the
// organization's past-performance narrative and returns
// 0.4 + 0.6 * hits/checks. No narrative is a neutral 0.5; a narrative with
// no applicable checks is a slight positive 0.6.
func (s *RelevanceScorer) pastPerformanceScore(org *models.Organization, opp *models.Opportunity) float64 {
	if strings.TrimSpace(org.PastPerformanceSummary) == "" {
		return 0.5
	}

	summary := strings.ToLower(org.PastPerformanceSummary)
	hits, checks := 0, 0

	// NAICS-description keyword overlap
	if opp.NAICSCode != "" {
		checks++
		if anyWordIn(strings.ToLower(opp.NAICSDescription), 3, 0, summary) {
			hits++
		}
	}

	// Contracting-office keyword overlap
	if opp.ContractingOfficeName != "" {
		checks++
		if anyWordIn(strings.ToLower(opp.ContractingOfficeName), 2, 0, summary) {
			hits++
		}
	}

	// Contract-type vocabulary match
	if opp.ContractType != "" {
		checks++
		ct := strings.ToLower(opp.ContractType)
		for _, entry := range contractTypeKeywords {
			if strings.Contains(entry.contractType, ct) {
				for _, kw := range entry.keywords {
					if strings.Contains(summary, kw) {
						hits++
						break
					}
				}
				break
			}
		}
	}

	if checks == 0 {
		return 0.6
	}
	return 0.4 + 0.6*float64(hits)/float64(checks)
}

// anyWordIn reports whether any of the first maxWords words of text (each
// longer than minWordLen) occurs as a substring of haystack.
func anyWordIn(text string, maxWords, minWordLen int, haystack string) bool {
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	for _, w := range words {
		if len(w) > minWordLen && strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

// explain composes the human-readable score explanation: an overall band
// plus component strengths and concerns.
func (s *RelevanceScorer) explain(naics, semantic, geographic, size, overall float64) string {
	var parts []string

	switch {
	case overall >= 0.8:
		parts = append(parts, "Strong alignment detected.")
	case overall >= 0.6:
		parts = append(parts, "Moderate alignment with some gaps.")
	case overall >= 0.4:
		parts = append(parts, "Limited alignment - review carefully.")
	default:
		parts = append(parts, "Weak alignment - likely not a good fit.")
	}

	var strengths, concerns []string

	if naics >= 0.75 {
		strengths = append(strengths, fmt.Sprintf("NAICS match (%.0f%%)", naics*100))
	} else if naics < 0.5 {
		concerns = append(concerns, fmt.Sprintf("NAICS mismatch (%.0f%%)", naics*100))
	}

	if semantic >= 0.7 {
		strengths = append(strengths, fmt.Sprintf("capabilities align well (%.0f%%)", semantic*100))
	} else if semantic < 0.4 {
		concerns = append(concerns, fmt.Sprintf("capabilities gap (%.0f%%)", semantic*100))
	}

	if geographic >= 0.8 {
		strengths = append(strengths, "good geographic fit")
	} else if geographic < 0.5 {
		concerns = append(concerns, "geographic distance")
	}

	if size >= 0.9 {
		strengths = append(strengths, "appropriate size/eligibility")
	} else if size < 0.5 {
		concerns = append(concerns, "size/eligibility concerns")
	}

	if len(strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(strengths, ", ")+".")
	}
	if len(concerns) > 0 {
		parts = append(parts, "Concerns: "+strings.Join(concerns, ", ")+".")
	}

	return strings.Join(parts, " ")
}

// Round4 rounds a score to 4 decimal places, the precision stored and
// serialized everywhere.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
