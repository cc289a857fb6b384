package proposal

import (
	"strings"
	"testing"
)

func TestOutline_AllSections(t *testing.T) {
	sections := Outline("Acme Federal", "Delivered 12 contracts on time.", "Cloud Migration RFP", nil)

	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	for _, s := range sections {
		if s.Confidence != 0.4 {
			t.Errorf("section %s confidence = %v, want 0.4 for template content", s.SectionID, s.Confidence)
		}
		if s.WordCount == 0 {
			t.Errorf("section %s has empty content", s.SectionID)
		}
	}

	if !strings.Contains(sections[0].Content, "Acme Federal") {
		t.Error("executive summary must name the organization")
	}
	if !strings.Contains(sections[0].Content, "Cloud Migration RFP") {
		t.Error("executive summary must name the opportunity")
	}
	if !strings.Contains(sections[3].Content, "Delivered 12 contracts on time.") {
		t.Error("past performance section must embed the narrative")
	}
}

func TestOutline_Deterministic(t *testing.T) {
	a := Outline("Org", "", "Opp", []string{"technical_approach"})
	b := Outline("Org", "", "Opp", []string{"technical_approach"})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected exactly one section, got %d and %d", len(a), len(b))
	}
	if a[0].Content != b[0].Content {
		t.Error("template output must be deterministic")
	}
}

func TestOutline_DefaultsAndUnknownSections(t *testing.T) {
	sections := Outline("", "", "", []string{"executive_summary", "budget_narrative"})

	if len(sections) != 1 {
		t.Fatalf("unknown section ids must be skipped, got %d sections", len(sections))
	}
	if !strings.Contains(sections[0].Content, "Our Organization") {
		t.Error("missing org name must fall back to the default")
	}
}
