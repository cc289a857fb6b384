package ingestion

import (
	"context"
	"time"

	"github.com/aureon/opportunity-engine/pkg/models"
)

// StubFetcher returns a small, stable sample list when no feed credential
// is configured. It keeps local development and offline tests running
// against realistic records.
type StubFetcher struct {
	now func() time.Time
}

// NewStubFetcher builds the stub. A nil clock uses wall time.
func NewStubFetcher(now func() time.Time) *StubFetcher {
	if now == nil {
		now = time.Now
	}
	return &StubFetcher{now: now}
}

func (f *StubFetcher) SourceSystem() string { return "sam.gov" }

// Fetch returns the sample records regardless of params.
func (f *StubFetcher) Fetch(_ context.Context, _ FetchParams) ([]models.RawOpportunity, error) {
	now := f.now().UTC()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	return []models.RawOpportunity{
		{
			NoticeID:                  "SAMPLE-001",
			Title:                     "Cloud Migration Services for Federal Agency",
			Description:               "Professional services for migrating legacy systems to cloud infrastructure. Includes assessment, planning, migration, and ongoing support.",
			Type:                      "k",
			SolicitationNumber:        "SOL-2025-001",
			NAICSCode:                 "541512",
			NAICSDescription:          "Computer Systems Design Services",
			TypeOfSetAsideDescription: "Small Business Set-Aside",
			PostedDate:                day(0),
			ResponseDeadLine:          day(30),
			PlaceOfPerformance: &models.RawPlace{
				City:  &models.RawNamed{Name: "Washington"},
				State: &models.RawCoded{Code: "DC"},
			},
			Office: &models.RawOffice{Name: "Department of Example"},
			PointOfContact: []models.RawContact{
				{FullName: "Jane Smith", Email: "jane.smith@example.gov", Phone: "202-555-0100"},
			},
		},
		{
			NoticeID:                  "SAMPLE-002",
			Title:                     "Cybersecurity Assessment and Monitoring",
			Description:               "Comprehensive cybersecurity services including vulnerability assessments, penetration testing, and continuous monitoring.",
			Type:                      "o",
			SolicitationNumber:        "RFP-2025-002",
			NAICSCode:                 "541519",
			NAICSDescription:          "Other Computer Related Services",
			TypeOfSetAsideDescription: "8(a) Set-Aside",
			PostedDate:                day(0),
			ResponseDeadLine:          day(45),
			PlaceOfPerformance: &models.RawPlace{
				City:  &models.RawNamed{Name: "Arlington"},
				State: &models.RawCoded{Code: "VA"},
			},
			Office: &models.RawOffice{Name: "Defense Information Systems Agency"},
			PointOfContact: []models.RawContact{
				{FullName: "John Doe", Email: "john.doe@example.gov", Phone: "703-555-0200"},
			},
		},
		{
			NoticeID:                  "SAMPLE-003",
			Title:                     "Environmental Remediation Services",
			Description:               "Environmental consulting and remediation services for contaminated site cleanup.",
			Type:                      "p",
			SolicitationNumber:        "PRE-2025-003",
			NAICSCode:                 "562910",
			NAICSDescription:          "Remediation Services",
			TypeOfSetAsideDescription: "Women-Owned Small Business Set-Aside",
			PostedDate:                day(0),
			ResponseDeadLine:          day(60),
			PlaceOfPerformance: &models.RawPlace{
				City:  &models.RawNamed{Name: "Denver"},
				State: &models.RawCoded{Code: "CO"},
			},
			Office: &models.RawOffice{Name: "Environmental Protection Agency"},
			PointOfContact: []models.RawContact{
				{FullName: "Mary Johnson", Email: "mary.johnson@example.gov", Phone: "303-555-0300"},
			},
		},
	}, nil
}
