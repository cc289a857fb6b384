package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureon/opportunity-engine/pkg/models"
)

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"ISO date", "2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"US date", "06/15/2025", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"ISO datetime", "2025-06-15T14:30:00", time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)},
		{"Datetime with offset suffix truncated", "2025-06-15T14:30:00-04:00", time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDate_Exhaustion(t *testing.T) {
	for _, input := range []string{"", "  ", "June 15, 2025", "15.06.2025", "not-a-date"} {
		assert.Nil(t, ParseDate(input), "input %q", input)
	}
}

func TestParseOpportunity_FullRecord(t *testing.T) {
	raw := models.RawOpportunity{
		NoticeID:                  "N-001",
		Title:                     "Cloud Migration Services",
		Description:               "Migrate legacy systems.",
		Type:                      "k",
		SolicitationNumber:        "SOL-1",
		PostedDate:                "2025-06-01",
		ResponseDeadLine:          "2025-07-01",
		NAICSCode:                 "541512",
		NAICSDescription:          "Computer Systems Design Services",
		ClassificationCode:        "D306",
		TypeOfSetAsideDescription: "Small Business Set-Aside",
		PlaceOfPerformance: &models.RawPlace{
			City:  &models.RawNamed{Name: "Washington"},
			State: &models.RawCoded{Code: "DC"},
			Zip:   "20001",
		},
		Office: &models.RawOffice{Name: "Department of Example"},
		PointOfContact: []models.RawContact{
			{FullName: "Jane Smith", Email: "jane@example.gov", Phone: "202-555-0100"},
			{FullName: "Backup Contact"},
		},
		Extra: map[string]any{"noticeId": "N-001", "unmodeledField": "preserved"},
	}

	opp, warnings, err := ParseOpportunity(raw, "sam.gov")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "N-001", opp.SourceID)
	assert.Equal(t, "sam.gov", opp.SourceSystem)
	assert.Equal(t, "Combined Synopsis/Solicitation", opp.NoticeType)
	assert.Equal(t, "541512", opp.NAICSCode)
	assert.Equal(t, "D306", opp.PSCCode)
	assert.Equal(t, "Washington", opp.PlaceOfPerformanceCity)
	assert.Equal(t, "DC", opp.PlaceOfPerformanceState)
	assert.Equal(t, "USA", opp.PlaceOfPerformanceCountry)
	assert.Equal(t, "Jane Smith", opp.PointOfContactName)
	assert.Equal(t, models.StatusActive, opp.Status)
	require.NotNil(t, opp.PostedDate)
	require.NotNil(t, opp.ResponseDeadline)
	assert.Equal(t, "preserved", opp.RawData["unmodeledField"])
}

func TestParseOpportunity_DowngradesToWarnings(t *testing.T) {
	raw := models.RawOpportunity{
		NoticeID:         "N-002",
		Title:            "Notice With Bad Date",
		PostedDate:       "June 1st 2025",
		ResponseDeadLine: "2025-07-01",
	}

	opp, warnings, err := ParseOpportunity(raw, "sam.gov")
	require.NoError(t, err)

	assert.Nil(t, opp.PostedDate)
	require.NotNil(t, opp.ResponseDeadline)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "postedDate")
}

func TestParseOpportunity_HardFailures(t *testing.T) {
	_, _, err := ParseOpportunity(models.RawOpportunity{NoticeID: "N-003"}, "sam.gov")
	assert.Error(t, err, "missing title is a hard failure")

	_, _, err = ParseOpportunity(models.RawOpportunity{Title: "No ID"}, "sam.gov")
	assert.Error(t, err, "missing noticeId is a hard failure")
}

func TestParseOpportunity_UnknownNoticeTypePassesThrough(t *testing.T) {
	opp, _, err := ParseOpportunity(models.RawOpportunity{
		NoticeID: "N-004", Title: "T", Type: "z",
	}, "sam.gov")
	require.NoError(t, err)
	assert.Equal(t, "z", opp.NoticeType)
}

func TestParseOpportunity_AwardRecord(t *testing.T) {
	opp, _, err := ParseOpportunity(models.RawOpportunity{
		NoticeID: "N-005",
		Title:    "Awarded Work",
		Type:     "a",
		Award: &models.RawAward{
			Date:    "2025-05-01",
			Awardee: "Winner Corp",
			UEI:     "WINNER123456",
		},
	}, "sam.gov")
	require.NoError(t, err)

	assert.Equal(t, "Award Notice", opp.NoticeType)
	assert.Equal(t, models.StatusAwarded, opp.Status)
	assert.Equal(t, "Winner Corp", opp.AwardeeName)
	require.NotNil(t, opp.AwardDate)
}
