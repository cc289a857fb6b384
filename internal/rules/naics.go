package rules

import "strings"

// NAICS Prefix Matcher
//
// NAICS codes are hierarchical by prefix: the first two digits name the
// sector, four digits the industry group, six the national industry. The
// matcher scores the deepest shared prefix between the opportunity's code
// and any of the organization's codes:
//
//	>=6 digits → 1.00 (exact national industry)
//	  5 digits → 0.90
//	  4 digits → 0.75 (same industry group)
//	  3 digits → 0.50
//	  2 digits → 0.25 (same sector only)
//	  <2       → 0.00
//
// Missing data on either side scores a neutral 0.5.

// NeutralNAICSScore is returned when either side has no codes.
const NeutralNAICSScore = 0.5

// CommonPrefixLen returns the length of the shared leading run of two
// code strings.
func CommonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// naicsScoreForPrefix maps a shared prefix length to its discrete score.
func naicsScoreForPrefix(l int) float64 {
	switch {
	case l >= 6:
		return 1.0
	case l == 5:
		return 0.9
	case l == 4:
		return 0.75
	case l == 3:
		return 0.5
	case l == 2:
		return 0.25
	default:
		return 0.0
	}
}

// MatchNAICS scores the opportunity code against the organization's codes,
// taking the best candidate. Symmetric in candidate ordering; exits early
// on a perfect match.
func MatchNAICS(oppCode string, orgCodes []string) float64 {
	oppCode = strings.TrimSpace(oppCode)
	if oppCode == "" || len(orgCodes) == 0 {
		return NeutralNAICSScore
	}

	best := 0.0
	for _, org := range orgCodes {
		score := naicsScoreForPrefix(CommonPrefixLen(oppCode, strings.TrimSpace(org)))
		if score > best {
			best = score
		}
		if best == 1.0 {
			break // can't do better
		}
	}
	return best
}
