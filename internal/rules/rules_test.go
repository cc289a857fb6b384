package rules

import "testing"

func TestSetAsideLattice_SBAcceptsAnySmallBusinessCert(t *testing.T) {
	// Every small-business certification satisfies a plain SB set-aside.
	for _, cert := range []string{"SB", "SDB", "8A", "WOSB", "EDWOSB", "VOSB", "SDVOSB", "HUBZone"} {
		if !IsSetAsideEligible("SB", []string{cert}) {
			t.Errorf("cert %s should satisfy SB set-aside", cert)
		}
	}

	// The inverse does not hold: SB alone does not unlock the narrower
	// programs.
	for _, required := range []string{"8A", "WOSB", "EDWOSB", "VOSB", "SDVOSB", "HUBZone", "SDB"} {
		if IsSetAsideEligible(required, []string{"SB"}) {
			t.Errorf("SB cert should NOT satisfy %s set-aside", required)
		}
	}
}

func TestSetAsideLattice_Relations(t *testing.T) {
	tests := []struct {
		required string
		cert     string
		eligible bool
	}{
		{"WOSB", "EDWOSB", true},
		{"EDWOSB", "WOSB", false},
		{"VOSB", "SDVOSB", true},
		{"SDVOSB", "VOSB", false},
		{"SDB", "8A", true},
		{"SDB", "SDB", true},
		{"8A", "SDB", false},
		{"HUBZone", "HUBZone", true},
	}
	for _, tt := range tests {
		if got := IsSetAsideEligible(tt.required, []string{tt.cert}); got != tt.eligible {
			t.Errorf("IsSetAsideEligible(%s, [%s]) = %v, want %v", tt.required, tt.cert, got, tt.eligible)
		}
	}
}

func TestSetAside_OpenCompetition(t *testing.T) {
	if !IsSetAsideEligible("", nil) {
		t.Error("missing set-aside means open competition: always eligible")
	}
	if !IsSetAsideEligible("  ", []string{"SB"}) {
		t.Error("blank set-aside means open competition: always eligible")
	}
}

func TestCanonicalSetAside_FeedDescriptions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Small Business Set-Aside", "SB"},
		{"Total Small Business Set-Aside", "SB"},
		{"8(a) Set-Aside", "8A"},
		{"Women-Owned Small Business Set-Aside", "WOSB"},
		{"Service-Disabled Veteran-Owned Small Business Set-Aside", "SDVOSB"},
		{"HUBZone Set-Aside", "HUBZONE"},
		{"hubzone", "HUBZONE"},
		{"sdvosb", "SDVOSB"},
	}
	for _, tt := range tests {
		if got := CanonicalSetAside(tt.in); got != tt.want {
			t.Errorf("CanonicalSetAside(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStateAdjacency_Symmetric(t *testing.T) {
	// DE appears only in MD's row; the check must still find MD-DE both ways.
	if !AreStatesAdjacent("MD", "DE") || !AreStatesAdjacent("DE", "MD") {
		t.Error("adjacency must be symmetric regardless of which row lists the pair")
	}
	if !AreStatesAdjacent("VA", "NC") || !AreStatesAdjacent("NC", "VA") {
		t.Error("VA-NC adjacency must hold in both directions")
	}
	if AreStatesAdjacent("CA", "FL") {
		t.Error("CA and FL are not adjacent")
	}
}

func TestDCArea(t *testing.T) {
	for _, s := range []string{"DC", "VA", "MD"} {
		if !InDCArea(s) {
			t.Errorf("%s should be in the DC federal hub", s)
		}
	}
	if InDCArea("CA") {
		t.Error("CA is not in the DC federal hub")
	}
}

func TestTokenize_DeterministicUnderWhitespace(t *testing.T) {
	a := Tokenize("cloud   migration\t\nservices for federal agency", MinTokenLen)
	b := Tokenize("cloud migration services for federal agency", MinTokenLen)

	if len(a) != len(b) {
		t.Fatalf("token sets differ in size: %d vs %d", len(a), len(b))
	}
	for tok := range a {
		if !b[tok] {
			t.Errorf("token %q missing from second set", tok)
		}
	}
	// "services" and "for" are stop words; "cloud", "migration", "federal",
	// "agency" survive.
	for _, want := range []string{"cloud", "migration", "federal", "agency"} {
		if !a[want] {
			t.Errorf("expected token %q", want)
		}
	}
	if a["services"] || a["for"] {
		t.Error("stop words must be dropped")
	}
}

func TestTokenize_MinLength(t *testing.T) {
	toks := Tokenize("go api data cloud", MinKeywordLen)
	if toks["go"] || toks["api"] {
		t.Error("tokens shorter than minLen must be dropped")
	}
	if !toks["data"] || !toks["cloud"] {
		t.Error("tokens of minLen or longer must be kept")
	}
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"cloud": true, "migration": true}
	b := map[string]bool{"cloud": true, "security": true}
	if got := Jaccard(a, b); got != 1.0/3.0 {
		t.Errorf("Jaccard = %v, want 1/3", got)
	}
	if got := Jaccard(nil, nil); got != 0 {
		t.Errorf("Jaccard of empty sets = %v, want 0", got)
	}
}

func TestTAA_SanctionedOverridesDesignation(t *testing.T) {
	for _, code := range []string{"KP", "IR", "CU", "SY", "BY", "RU"} {
		if !IsSanctioned(code) {
			t.Errorf("%s must be sanctioned", code)
		}
		if IsTAADesignated(code) {
			t.Errorf("%s must not be designated", code)
		}
	}
}

func TestTAA_Lookups(t *testing.T) {
	if c, ok := LookupCountry("DE"); !ok || !c.Designated || c.Name != "Germany" {
		t.Errorf("DE lookup: got %+v ok=%v", c, ok)
	}
	if c, ok := LookupCountry("CN"); !ok || c.Designated {
		t.Errorf("CN must be known and non-designated, got %+v ok=%v", c, ok)
	}
	if _, ok := LookupCountry("XX"); ok {
		t.Error("XX must be unknown")
	}
}

func TestSection889Tables(t *testing.T) {
	if ProhibitedEntityName("huawei") != "Huawei Technologies Co., Ltd." {
		t.Error("huawei key must resolve to its canonical entity name")
	}
	if ProhibitedBrands()["uniview"] != BrandRequiresReview {
		t.Error("uniview must map to the requires_review sentinel")
	}
	if ProhibitedBrands()["honor"] != "huawei" {
		t.Error("honor must map to the huawei key")
	}
}

// TestBenchmarkTableIntegrity documents the fix for the upstream dataset's
// mislabeled 541519 average column: every row must carry a positive average
// value alongside min/median/max.
func TestBenchmarkTableIntegrity(t *testing.T) {
	for _, b := range NAICSBenchmarks() {
		if !b.AverageValue.IsPositive() {
			t.Errorf("NAICS %s benchmark has non-positive average value", b.NAICSCode)
		}
		if !b.MinValue.IsPositive() || !b.MedianValue.IsPositive() || !b.MaxValue.IsPositive() {
			t.Errorf("NAICS %s benchmark has non-positive value fields", b.NAICSCode)
		}
		if b.MinValue.GreaterThan(b.MedianValue) || b.MedianValue.GreaterThan(b.MaxValue) {
			t.Errorf("NAICS %s benchmark ordering violated: min <= median <= max", b.NAICSCode)
		}
	}
	for _, key := range []string{"program_manager", "engineer"} {
		row, ok := LaborRate(key)
		if !ok {
			t.Fatalf("labor category %s missing", key)
		}
		if !row.MedianRate.IsPositive() || row.SampleSize <= 0 {
			t.Errorf("labor category %s has invalid benchmark data", key)
		}
	}
}

func TestNAICSBenchmark_PrefixFallback(t *testing.T) {
	if b, ok := NAICSBenchmark("541512"); !ok || b.NAICSCode != "541512" {
		t.Errorf("exact lookup failed: %+v ok=%v", b, ok)
	}
	// 541513 has no exact row; 5415 prefix should find a 5415xx row.
	if b, ok := NAICSBenchmark("541513"); !ok || b.NAICSCode[:4] != "5415" {
		t.Errorf("prefix fallback failed: %+v ok=%v", b, ok)
	}
	if _, ok := NAICSBenchmark("722110"); ok {
		t.Error("unrelated NAICS must have no benchmark")
	}
}
