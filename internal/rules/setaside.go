package rules

import "strings"

// Set-Aside Eligibility Lattice
//
// Maps an opportunity's required set-aside to the organization
// certifications that satisfy it. Any small-business certification
// satisfies a plain SB set-aside; the inverse never holds (an SB cert
// does not unlock 8(a), HUBZone, etc.).
var setAsideEligible = map[string][]string{
	"SB":      {"SB", "SDB", "8A", "WOSB", "EDWOSB", "VOSB", "SDVOSB", "HUBZONE"},
	"SDB":     {"SDB", "8A"},
	"8A":      {"8A"},
	"WOSB":    {"WOSB", "EDWOSB"},
	"EDWOSB":  {"EDWOSB"},
	"VOSB":    {"VOSB", "SDVOSB"},
	"SDVOSB":  {"SDVOSB"},
	"HUBZONE": {"HUBZONE"},
}

// setAsideAliases folds the feed's long-form set-aside descriptions and
// punctuation variants onto canonical lattice keys.
var setAsideAliases = map[string]string{
	"8(A)":                 "8A",
	"8(A) SET-ASIDE":       "8A",
	"8(A) SET-ASIDE (FAR 19.8)": "8A",
	"SBA":                  "SB",
	"SMALL BUSINESS":       "SB",
	"SMALL BUSINESS SET-ASIDE": "SB",
	"TOTAL SMALL BUSINESS SET-ASIDE": "SB",
	"TOTAL SMALL BUSINESS SET-ASIDE (FAR 19.5)": "SB",
	"WOMEN-OWNED SMALL BUSINESS SET-ASIDE":      "WOSB",
	"WOMEN-OWNED SMALL BUSINESS (WOSB) PROGRAM SET-ASIDE": "WOSB",
	"ECONOMICALLY DISADVANTAGED WOSB":                     "EDWOSB",
	"SERVICE-DISABLED VETERAN-OWNED SMALL BUSINESS SET-ASIDE": "SDVOSB",
	"VETERAN-OWNED SMALL BUSINESS SET-ASIDE":                  "VOSB",
	"HUBZONE SET-ASIDE": "HUBZONE",
	"HUBZONE":           "HUBZONE",
}

// CanonicalSetAside normalizes a set-aside string (code or feed
// description) to its lattice key. Unknown values are uppercased and
// returned as-is so they can still be compared literally.
func CanonicalSetAside(s string) string {
	key := strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := setAsideAliases[key]; ok {
		return alias
	}
	// Feed descriptions we don't alias explicitly: fall back to a
	// keyword scan so "Small Business Set-Aside -- Partial" still maps.
	if _, ok := setAsideEligible[key]; !ok {
		switch {
		case strings.Contains(key, "8(A)") || strings.Contains(key, "8A"):
			return "8A"
		case strings.Contains(key, "EDWOSB") || strings.Contains(key, "ECONOMICALLY DISADVANTAGED"):
			return "EDWOSB"
		case strings.Contains(key, "WOSB") || strings.Contains(key, "WOMEN"):
			return "WOSB"
		case strings.Contains(key, "SDVOSB") || strings.Contains(key, "SERVICE-DISABLED"):
			return "SDVOSB"
		case strings.Contains(key, "VOSB") || strings.Contains(key, "VETERAN"):
			return "VOSB"
		case strings.Contains(key, "HUBZONE"):
			return "HUBZONE"
		case strings.Contains(key, "SDB"):
			return "SDB"
		case strings.Contains(key, "SMALL"):
			return "SB"
		}
	}
	return key
}

// EligibleCertifications returns the certification set that satisfies the
// given required set-aside, and whether the set-aside is known to the
// lattice.
func EligibleCertifications(required string) ([]string, bool) {
	certs, ok := setAsideEligible[CanonicalSetAside(required)]
	return certs, ok
}

// IsSetAsideEligible reports whether any of the organization's
// certifications satisfies the opportunity's required set-aside. An empty
// required set-aside means open competition: always eligible.
func IsSetAsideEligible(required string, orgCerts []string) bool {
	if strings.TrimSpace(required) == "" {
		return true
	}
	eligible, known := EligibleCertifications(required)
	if !known {
		// Unknown set-aside types are compared literally.
		eligible = []string{CanonicalSetAside(required)}
	}
	for _, cert := range orgCerts {
		c := CanonicalSetAside(cert)
		for _, e := range eligible {
			if c == e {
				return true
			}
		}
	}
	return false
}
