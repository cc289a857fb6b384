package proposal

import (
	"fmt"
	"strings"
)

// Template Proposal Outliner
//
// The deterministic fallback path of the proposal generator: canned
// section templates filled with the organization and opportunity names.
// No language-model calls happen here; template content always carries a
// reduced confidence of 0.4.

// Section is one generated proposal section.
type Section struct {
	SectionID  string  `json:"sectionId"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	WordCount  int     `json:"wordCount"`
	Confidence float64 `json:"confidence"`
}

// sectionTitles orders and names the supported section types.
var sectionTitles = []struct {
	id    string
	title string
}{
	{"executive_summary", "Executive Summary"},
	{"technical_approach", "Technical Approach"},
	{"management_approach", "Management Approach"},
	{"past_performance", "Past Performance"},
}

// SectionTypes returns the supported section type ids in order.
func SectionTypes() []string {
	out := make([]string, len(sectionTitles))
	for i, s := range sectionTitles {
		out[i] = s.id
	}
	return out
}

// Outline renders the template sections for an opportunity. sections may
// be nil to render all of them; unknown section ids are skipped.
func Outline(orgName, orgPastPerformance, oppTitle string, sections []string) []Section {
	if orgName == "" {
		orgName = "Our Organization"
	}
	if oppTitle == "" {
		oppTitle = "this opportunity"
	}
	if sections == nil {
		sections = SectionTypes()
	}

	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}

	out := []Section{}
	for _, st := range sectionTitles {
		if !wanted[st.id] {
			continue
		}
		content := strings.TrimSpace(render(st.id, orgName, orgPastPerformance, oppTitle))
		out = append(out, Section{
			SectionID:  st.id,
			Title:      st.title,
			Content:    content,
			WordCount:  len(strings.Fields(content)),
			Confidence: 0.4, // template content, not tailored prose
		})
	}
	return out
}

func render(sectionType, orgName, orgPastPerformance, oppTitle string) string {
	switch sectionType {
	case "executive_summary":
		return fmt.Sprintf(`%s is pleased to submit this proposal in response to %s.

Our organization brings extensive experience in the areas required by this solicitation. We understand the importance of this requirement to the agency and are committed to delivering exceptional results.

Key differentiators that make %s the ideal choice include:
• Proven track record of successful federal contract performance
• Deep expertise in the relevant technical domains
• Commitment to quality, compliance, and customer satisfaction
• Agile and responsive project management approach

We look forward to the opportunity to demonstrate our capabilities and contribute to the agency's mission success.

[Note: This is a template summary. Full AI-generated content requires API configuration.]`, orgName, oppTitle, orgName)

	case "technical_approach":
		return fmt.Sprintf(`# Technical Approach

## Understanding of Requirements
%s thoroughly understands the requirements outlined in this solicitation. Our approach is designed to meet and exceed all stated objectives.

## Methodology
Our proven methodology encompasses:
1. Requirements Analysis and Planning
2. Solution Design and Development
3. Implementation and Integration
4. Testing and Quality Assurance
5. Deployment and Transition
6. Ongoing Support and Optimization

## Tools and Technologies
We leverage industry-leading tools and technologies appropriate to the requirement.

## Quality Assurance
Our quality management system ensures consistent, high-quality deliverables.

[Note: This is a template approach. Full AI-generated content requires API configuration.]`, orgName)

	case "management_approach":
		return fmt.Sprintf(`# Management Approach

## Organization Structure
%s will establish a dedicated project team with clear roles and responsibilities.

## Key Personnel
- Program Manager: Overall accountability
- Technical Lead: Technical direction and oversight
- Quality Manager: QA/QC processes

## Communication
Regular status reporting, weekly meetings, and responsive communication channels.

## Risk Management
Proactive risk identification, assessment, and mitigation strategies.

[Note: This is a template approach. Full AI-generated content requires API configuration.]`, orgName)

	case "past_performance":
		if orgPastPerformance == "" {
			orgPastPerformance = "Contact us for detailed past performance references."
		}
		return fmt.Sprintf(`# Past Performance

%s has successfully delivered similar contracts demonstrating our capability.

## Relevant Experience
Our past performance demonstrates:
• Successful delivery of comparable scope and complexity
• Strong customer satisfaction ratings
• On-time and on-budget performance
• Effective problem resolution

%s

[Note: This is a template narrative. Full AI-generated content requires API configuration.]`, orgName, orgPastPerformance)
	}
	return "Section content not available."
}
