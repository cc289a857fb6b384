package rules

// Section 889 prohibited entities (NDAA FY2019, Parts A and B).
//
// Keys are lowercased substrings matched against supplier and component
// names; values are the canonical entity names reported in verdicts.

// BrandRequiresReview is the sentinel value in the brand table for brands
// that are not explicitly prohibited but warrant manual review.
const BrandRequiresReview = "requires_review"

var prohibitedEntities = map[string]string{
	// Part A - prohibited telecommunications equipment
	"huawei":    "Huawei Technologies Co., Ltd.",
	"zte":       "ZTE Corporation",
	"hytera":    "Hytera Communications Corporation",
	"hikvision": "Hangzhou Hikvision Digital Technology Co., Ltd.",
	"dahua":     "Dahua Technology Co., Ltd.",

	// Subsidiaries and affiliates (partial list)
	"huawei marine": "Huawei Marine Networks",
	"huawei cloud":  "Huawei Cloud Computing",
	"hiwatch":       "HiWatch (Hikvision subsidiary)",
	"ezviz":         "EZVIZ (Hikvision subsidiary)",
	"lorex":         "Lorex Technology (Dahua subsidiary)",

	// Additional entities from subsequent guidance
	"kaspersky": "Kaspersky Lab (if network-connected)",
}

// prohibitedBrands maps alternate brand names to the canonical entity key,
// or to BrandRequiresReview when the linkage is unconfirmed.
var prohibitedBrands = map[string]string{
	"honor":           "huawei", // Honor was a Huawei sub-brand
	"hikwatch":        "hikvision",
	"dahua technology": "dahua",
	"uniview":         BrandRequiresReview,
}

// riskIndicatorKeywords flag product categories covered by Section 889
// without naming a prohibited entity. A hit adds an advisory factor but
// does not flip the verdict.
var riskIndicatorKeywords = map[string]string{
	"telecom":      "Telecommunications/network equipment - verify Section 889 compliance",
	"network":      "Telecommunications/network equipment - verify Section 889 compliance",
	"camera":       "Video surveillance equipment - verify against Hikvision/Dahua prohibitions",
	"surveillance": "Video surveillance equipment - verify against Hikvision/Dahua prohibitions",
	"security":     "Video surveillance equipment - verify against Hikvision/Dahua prohibitions",
}

// ProhibitedEntities exposes the entity table for substring screening.
func ProhibitedEntities() map[string]string { return prohibitedEntities }

// ProhibitedBrands exposes the brand alias table.
func ProhibitedBrands() map[string]string { return prohibitedBrands }

// RiskIndicatorKeywords exposes the advisory keyword table.
func RiskIndicatorKeywords() map[string]string { return riskIndicatorKeywords }

// ProhibitedEntityName resolves a canonical entity key to its full name.
// Unknown keys return the key itself.
func ProhibitedEntityName(key string) string {
	if name, ok := prohibitedEntities[key]; ok {
		return name
	}
	return key
}
