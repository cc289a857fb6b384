package supplychain

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aureon/opportunity-engine/internal/rules"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// Supply-Chain Compliance Verifier
//
// Two independent screenings compose into one supplier risk verdict:
//
//   Section 889 (NDAA FY2019): substring screening of supplier and
//   component names against the prohibited-entity and brand tables.
//   Any entity hit is terminal (prohibited); advisory keyword hits
//   downgrade to requires_review without flipping the verdict.
//
//   TAA: ISO-2 country-of-origin lookup. Sanctioned countries are
//   prohibited regardless of designation.
//
// Composite risk: prohibited 889 pins 1.0; review adds 0.4; TAA
// prohibited pins 1.0, non-compliant +0.5, unknown +0.3, not supplied
// +0.2. Banding: <0.25 low, <0.50 medium, <0.80 high, else critical.

// ComplianceStatus is a screening verdict.
type ComplianceStatus string

const (
	StatusCompliant      ComplianceStatus = "compliant"
	StatusNonCompliant   ComplianceStatus = "non_compliant"
	StatusProhibited     ComplianceStatus = "prohibited"
	StatusUnknown        ComplianceStatus = "unknown"
	StatusRequiresReview ComplianceStatus = "requires_review"
)

// Component is one line item on a supplier's bill of materials.
type Component struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// Section889Result is the outcome of a Section 889 screen.
type Section889Result struct {
	SupplierName             string           `json:"supplierName"`
	Status                   ComplianceStatus `json:"status"`
	ProhibitedEntitiesMatched []string        `json:"prohibitedEntitiesMatched"`
	RiskIndicators           []string         `json:"riskIndicators"`
	Recommendation           string           `json:"recommendation"`
	CheckedAt                time.Time        `json:"checkedAt"`
}

// TAAResult is the outcome of a TAA country-of-origin check.
type TAAResult struct {
	CountryCode         string           `json:"countryCode"`
	CountryName         string           `json:"countryName"`
	Status              ComplianceStatus `json:"status"`
	IsDesignatedCountry bool             `json:"isDesignatedCountry"`
	IsProhibited        bool             `json:"isProhibited"`
	Notes               string           `json:"notes"`
	CheckedAt           time.Time        `json:"checkedAt"`
}

// SupplierVerification is the combined verdict for a supplier.
type SupplierVerification struct {
	SupplierID       string            `json:"supplierId"`
	SupplierName     string            `json:"supplierName"`
	Verified         bool              `json:"verified"`
	Section889Result Section889Result  `json:"section889Result"`
	TAAResult        *TAAResult        `json:"taaResult,omitempty"`
	OverallRiskScore float64           `json:"overallRiskScore"`
	RiskLevel        models.RiskLevel  `json:"riskLevel"`
	RiskFactors      []string          `json:"riskFactors"`
	Recommendations  []string          `json:"recommendations"`
	VerifiedAt       time.Time         `json:"verifiedAt"`
}

// Verifier performs supply-chain compliance screening. Stateless; safe
// for concurrent use.
type Verifier struct {
	log zerolog.Logger
}

// NewVerifier builds a verifier with the given logger.
func NewVerifier(log zerolog.Logger) *Verifier {
	return &Verifier{log: log.With().Str("component", "supply_chain").Logger()}
}

// VerifySupplier runs the complete verification: Section 889 always, TAA
// when a country of origin is supplied.
func (v *Verifier) VerifySupplier(supplierName, supplierID, countryOfOrigin string, components []Component) SupplierVerification {
	if supplierID == "" {
		supplierID = fmt.Sprintf("SUP-%05d", nameHash(supplierName)%100000)
	}

	section889 := v.CheckSection889(supplierName, components)

	var taaResult *TAAResult
	if countryOfOrigin != "" {
		r := v.CheckTAA(countryOfOrigin)
		taaResult = &r
	}

	score, level, factors := compositeRisk(section889, taaResult)

	v.log.Info().
		Str("supplier", supplierName).
		Str("section889", string(section889.Status)).
		Float64("riskScore", score).
		Msg("supplier verification complete")

	return SupplierVerification{
		SupplierID:       supplierID,
		SupplierName:     supplierName,
		Verified:         true,
		Section889Result: section889,
		TAAResult:        taaResult,
		OverallRiskScore: score,
		RiskLevel:        level,
		RiskFactors:      factors,
		Recommendations:  recommendations(section889, taaResult, level),
		VerifiedAt:       time.Now().UTC(),
	}
}

// CheckSection889 screens a supplier name and optional component list
// against the prohibited-entity tables. A hit occurs when an entity key is
// a substring of the name or vice versa.
func (v *Verifier) CheckSection889(supplierName string, components []Component) Section889Result {
	supplierLower := strings.ToLower(strings.TrimSpace(supplierName))
	var matched, indicators []string

	// Iterate table keys in sorted order so repeated screenings produce
	// identical factor ordering.
	entities := rules.ProhibitedEntities()
	entityKeys := sortedKeys(entities)

	for _, key := range entityKeys {
		if strings.Contains(supplierLower, key) || (supplierLower != "" && strings.Contains(key, supplierLower)) {
			matched = append(matched, entities[key])
		}
	}

	brands := rules.ProhibitedBrands()
	for _, brand := range sortedKeys(brands) {
		if !strings.Contains(supplierLower, brand) {
			continue
		}
		if mapsTo := brands[brand]; mapsTo == rules.BrandRequiresReview {
			indicators = append(indicators, fmt.Sprintf("Brand '%s' requires additional review", brand))
		} else {
			matched = append(matched, fmt.Sprintf("%s (via brand: %s)", rules.ProhibitedEntityName(mapsTo), brand))
		}
	}

	for _, component := range components {
		compName := strings.ToLower(component.Name)
		compMfr := strings.ToLower(component.Manufacturer)
		for _, key := range entityKeys {
			if strings.Contains(compName, key) || strings.Contains(compMfr, key) {
				matched = append(matched, fmt.Sprintf("%s (component: %s)", entities[key], component.Name))
			}
		}
	}

	indicatorNotes := rules.RiskIndicatorKeywords()
	seenIndicator := make(map[string]bool)
	for _, keyword := range sortedKeys(indicatorNotes) {
		note := indicatorNotes[keyword]
		if strings.Contains(supplierLower, keyword) && !seenIndicator[note] {
			seenIndicator[note] = true
			indicators = append(indicators, note)
		}
	}

	var status ComplianceStatus
	var recommendation string
	switch {
	case len(matched) > 0:
		status = StatusProhibited
		recommendation = "DO NOT PROCEED - Supplier matches Section 889 prohibited entities"
	case len(indicators) > 0:
		status = StatusRequiresReview
		recommendation = "Additional verification required before procurement"
	default:
		status = StatusCompliant
		recommendation = "No Section 889 prohibitions identified"
	}

	if matched == nil {
		matched = []string{}
	}
	if indicators == nil {
		indicators = []string{}
	}

	return Section889Result{
		SupplierName:             supplierName,
		Status:                   status,
		ProhibitedEntitiesMatched: matched,
		RiskIndicators:           indicators,
		Recommendation:           recommendation,
		CheckedAt:                time.Now().UTC(),
	}
}

// CheckTAA looks up an ISO-2 country code against the designated,
// non-designated and sanctioned tables.
func (v *Verifier) CheckTAA(countryCode string) TAAResult {
	code := strings.ToUpper(strings.TrimSpace(countryCode))

	country, known := rules.LookupCountry(code)
	if !known {
		return TAAResult{
			CountryCode:         code,
			CountryName:         "Unknown",
			Status:              StatusUnknown,
			IsDesignatedCountry: false,
			IsProhibited:        false,
			Notes:               fmt.Sprintf("Country code '%s' not found in database. Manual verification required.", code),
			CheckedAt:           time.Now().UTC(),
		}
	}

	result := TAAResult{
		CountryCode:         code,
		CountryName:         country.Name,
		IsDesignatedCountry: country.Designated,
		IsProhibited:        rules.IsSanctioned(code),
		CheckedAt:           time.Now().UTC(),
	}

	switch {
	case result.IsProhibited:
		result.Status = StatusProhibited
		result.IsDesignatedCountry = false
		result.Notes = fmt.Sprintf("%s is subject to US sanctions. Procurement prohibited.", country.Name)
	case country.Designated:
		result.Status = StatusCompliant
		result.Notes = fmt.Sprintf("%s is a TAA designated country.", country.Name)
	default:
		result.Status = StatusNonCompliant
		result.Notes = fmt.Sprintf("%s is NOT a TAA designated country. Products may not be procured for federal contracts unless substantially transformed in a designated country.", country.Name)
	}

	return result
}

// BatchCheckTAA checks several country codes at once, keyed by the input
// codes.
func (v *Verifier) BatchCheckTAA(countryCodes []string) map[string]TAAResult {
	results := make(map[string]TAAResult, len(countryCodes))
	for _, code := range countryCodes {
		results[code] = v.CheckTAA(code)
	}
	return results
}

// compositeRisk combines the 889 and TAA results into a score, level and
// factor list.
func compositeRisk(section889 Section889Result, taa *TAAResult) (float64, models.RiskLevel, []string) {
	score := 0.0
	factors := []string{}

	switch section889.Status {
	case StatusProhibited:
		score = 1.0
		factors = append(factors, "Section 889 PROHIBITED entity match")
	case StatusRequiresReview:
		score += 0.4
		factors = append(factors, section889.RiskIndicators...)
	}

	if taa != nil {
		switch taa.Status {
		case StatusProhibited:
			score = math.Max(score, 1.0)
			factors = append(factors, fmt.Sprintf("Sanctioned country: %s", taa.CountryName))
		case StatusNonCompliant:
			score += 0.5
			factors = append(factors, fmt.Sprintf("Non-TAA country: %s", taa.CountryName))
		case StatusUnknown:
			score += 0.3
			factors = append(factors, "Country of origin verification required")
		}
	} else {
		score += 0.2
		factors = append(factors, "Country of origin not provided")
	}

	score = math.Min(1.0, score)
	score = math.Round(score*10000) / 10000

	return score, riskLevel(score), factors
}

// riskLevel bands a composite supply-chain risk score.
func riskLevel(score float64) models.RiskLevel {
	switch {
	case score < 0.25:
		return models.RiskLow
	case score < 0.50:
		return models.RiskMedium
	case score < 0.80:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// recommendations derives actionable guidance from the verdicts.
func recommendations(section889 Section889Result, taa *TAAResult, level models.RiskLevel) []string {
	var recs []string

	switch section889.Status {
	case StatusProhibited:
		recs = append(recs,
			"DO NOT PROCEED with this supplier - Section 889 violation",
			"Identify alternative suppliers from compliant sources")
	case StatusRequiresReview:
		recs = append(recs,
			"Request supplier's Section 889 compliance certification",
			"Obtain detailed product/component listing with manufacturers")
	}

	if taa != nil {
		switch taa.Status {
		case StatusProhibited:
			recs = append(recs, "DO NOT PROCEED - Sanctioned country of origin")
		case StatusNonCompliant:
			recs = append(recs,
				"Request Certificate of Origin documentation",
				"Verify if product is substantially transformed in designated country",
				"Consider alternative suppliers from TAA-compliant countries")
		case StatusUnknown:
			recs = append(recs, "Verify country of origin with supplier")
		}
	} else {
		recs = append(recs, "Request country of origin information from supplier")
	}

	if level == models.RiskHigh {
		recs = append(recs,
			"Consult with contracting officer before proceeding",
			"Document all compliance verification steps")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Supplier passes initial compliance screening",
			"Maintain documentation for audit purposes")
	}

	return recs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// nameHash derives a stable supplier id from the name.
func nameHash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return h.Sum32()
}
