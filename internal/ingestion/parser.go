package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/aureon/opportunity-engine/pkg/models"
)

// noticeTypes maps the feed's single-letter notice codes to display names.
var noticeTypes = map[string]string{
	"o": "Solicitation",
	"p": "Presolicitation",
	"k": "Combined Synopsis/Solicitation",
	"r": "Sources Sought",
	"g": "Sale of Surplus Property",
	"s": "Special Notice",
	"i": "Intent to Bundle Requirements",
	"a": "Award Notice",
	"u": "Justification and Approval",
}

// dateFormats are tried in order against the first 19 characters of a feed
// date string.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02T15:04:05",
}

// ParseDate parses a feed date into UTC, returning nil on exhaustion of
// the known formats.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > 19 {
		s = s[:19]
	}
	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// ParseOpportunity converts a raw feed record into the canonical shape.
// Parsing is total: downgrades (an unparseable date, a missing field) are
// reported as warnings, never errors. Title is the one hard requirement.
func ParseOpportunity(raw models.RawOpportunity, sourceSystem string) (models.Opportunity, []string, error) {
	if strings.TrimSpace(raw.Title) == "" {
		return models.Opportunity{}, nil, fmt.Errorf("record %s has no title", raw.NoticeID)
	}
	if strings.TrimSpace(raw.NoticeID) == "" {
		return models.Opportunity{}, nil, fmt.Errorf("record has no noticeId")
	}

	var warnings []string
	warnDate := func(field, value string) *time.Time {
		if value == "" {
			return nil
		}
		t := ParseDate(value)
		if t == nil {
			warnings = append(warnings, fmt.Sprintf("unparseable %s %q", field, value))
		}
		return t
	}

	opp := models.Opportunity{
		SourceID:           raw.NoticeID,
		SourceSystem:       sourceSystem,
		Title:              raw.Title,
		Description:        raw.Description,
		SolicitationNumber: raw.SolicitationNumber,
		NAICSCode:          raw.NAICSCode,
		NAICSDescription:   raw.NAICSDescription,
		PSCCode:            raw.ClassificationCode,
		SetAsideType:       raw.TypeOfSetAsideDescription,
		ContractType:       raw.ContractType,
		PostedDate:         warnDate("postedDate", raw.PostedDate),
		ResponseDeadline:   warnDate("responseDeadLine", raw.ResponseDeadLine),
		ArchiveDate:        warnDate("archiveDate", raw.ArchiveDate),
		Status:             models.StatusActive,
		RawData:            raw.Extra,
		IngestedAt:         time.Now().UTC(),
	}

	if name, ok := noticeTypes[strings.ToLower(raw.Type)]; ok {
		opp.NoticeType = name
	} else {
		opp.NoticeType = raw.Type
	}

	if pop := raw.PlaceOfPerformance; pop != nil {
		if pop.City != nil {
			opp.PlaceOfPerformanceCity = pop.City.Name
		}
		if pop.State != nil {
			opp.PlaceOfPerformanceState = pop.State.Code
		}
		opp.PlaceOfPerformanceZip = pop.Zip
		if pop.Country != nil && pop.Country.Code != "" {
			opp.PlaceOfPerformanceCountry = pop.Country.Code
		} else {
			opp.PlaceOfPerformanceCountry = "USA"
		}
	}

	if raw.Office != nil {
		opp.ContractingOfficeName = raw.Office.Name
	}

	if len(raw.PointOfContact) > 0 {
		primary := raw.PointOfContact[0]
		opp.PointOfContactName = primary.FullName
		opp.PointOfContactEmail = primary.Email
		opp.PointOfContactPhone = primary.Phone
	}

	if raw.Award != nil {
		opp.AwardDate = warnDate("award.date", raw.Award.Date)
		opp.AwardeeName = raw.Award.Awardee
		opp.AwardeeUEI = raw.Award.UEI
		if opp.AwardeeName != "" || opp.AwardDate != nil {
			opp.Status = models.StatusAwarded
		}
	}

	return opp, warnings, nil
}
