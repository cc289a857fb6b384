package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Organization is a company profile registered with the engine.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LegalName string    `json:"legalName,omitempty"`
	DUNS      string    `json:"dunsNumber,omitempty"`
	UEI       string    `json:"uei,omitempty"` // 12-char SAM.gov Unique Entity Identifier
	CageCode  string    `json:"cageCode,omitempty"`

	// Classification codes
	NAICSCodes    []string `json:"naicsCodes,omitempty"`
	PSCCodes      []string `json:"pscCodes,omitempty"`
	SetAsideTypes []string `json:"setAsideTypes,omitempty"` // SB, SDB, 8A, WOSB, EDWOSB, VOSB, SDVOSB, HUBZone

	// Address
	AddressLine1 string `json:"addressLine1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
	Country      string `json:"country,omitempty"`

	// Scale
	Website       string           `json:"website,omitempty"`
	EmployeeCount *int             `json:"employeeCount,omitempty"`
	AnnualRevenue *decimal.Decimal `json:"annualRevenue,omitempty"`

	// Narratives
	CapabilitiesNarrative  string `json:"capabilitiesNarrative,omitempty"`
	PastPerformanceSummary string `json:"pastPerformanceSummary,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OpportunityStatus is the lifecycle state of a procurement notice.
type OpportunityStatus string

const (
	StatusForecast        OpportunityStatus = "forecast"
	StatusPresolicitation OpportunityStatus = "presolicitation"
	StatusActive          OpportunityStatus = "active"
	StatusClosed          OpportunityStatus = "closed"
	StatusAwarded         OpportunityStatus = "awarded"
	StatusCancelled       OpportunityStatus = "cancelled"
	StatusArchived        OpportunityStatus = "archived"
)

// Opportunity is a canonical procurement notice. The natural key is
// (SourceSystem, SourceID); re-ingestion updates in place.
type Opportunity struct {
	ID           uuid.UUID `json:"id"`
	SourceID     string    `json:"sourceId"`
	SourceSystem string    `json:"sourceSystem"`

	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	NoticeType         string `json:"noticeType,omitempty"`
	SolicitationNumber string `json:"solicitationNumber,omitempty"`

	NAICSCode        string `json:"naicsCode,omitempty"`
	NAICSDescription string `json:"naicsDescription,omitempty"`
	PSCCode          string `json:"pscCode,omitempty"`
	PSCDescription   string `json:"pscDescription,omitempty"`
	SetAsideType     string `json:"setAsideType,omitempty"`

	PostedDate       *time.Time `json:"postedDate,omitempty"`
	ResponseDeadline *time.Time `json:"responseDeadline,omitempty"`
	ArchiveDate      *time.Time `json:"archiveDate,omitempty"`

	ContractType      string           `json:"contractType,omitempty"`
	EstimatedValueMin *decimal.Decimal `json:"estimatedValueMin,omitempty"`
	EstimatedValueMax *decimal.Decimal `json:"estimatedValueMax,omitempty"`

	PlaceOfPerformanceCity    string `json:"placeOfPerformanceCity,omitempty"`
	PlaceOfPerformanceState   string `json:"placeOfPerformanceState,omitempty"`
	PlaceOfPerformanceZip     string `json:"placeOfPerformanceZip,omitempty"`
	PlaceOfPerformanceCountry string `json:"placeOfPerformanceCountry,omitempty"`

	ContractingOfficeName string `json:"contractingOfficeName,omitempty"`
	PointOfContactName    string `json:"pointOfContactName,omitempty"`
	PointOfContactEmail   string `json:"pointOfContactEmail,omitempty"`
	PointOfContactPhone   string `json:"pointOfContactPhone,omitempty"`

	// Award info, populated for award notices
	AwardDate   *time.Time       `json:"awardDate,omitempty"`
	AwardAmount *decimal.Decimal `json:"awardAmount,omitempty"`
	AwardeeName string           `json:"awardeeName,omitempty"`
	AwardeeUEI  string           `json:"awardeeUei,omitempty"`

	SecurityClearanceRequired string            `json:"securityClearanceRequired,omitempty"`
	Status                    OpportunityStatus `json:"status"`

	// Original feed payload, kept verbatim for auditability
	RawData map[string]any `json:"rawData,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// RelevanceScore is the multi-factor match between an organization and an
// opportunity. Unique per (OrganizationID, OpportunityID); rescoring
// overwrites the prior row.
type RelevanceScore struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OpportunityID  uuid.UUID `json:"opportunityId"`

	// All scores in [0, 1], rounded to 4 decimals
	OverallScore         float64 `json:"overallScore"`
	NAICSScore           float64 `json:"naicsScore"`
	SemanticScore        float64 `json:"semanticScore"`
	GeographicScore      float64 `json:"geographicScore"`
	SizeScore            float64 `json:"sizeScore"`
	PastPerformanceScore float64 `json:"pastPerformanceScore"`

	ComponentWeights map[string]float64 `json:"componentWeights"`
	Explanation      string             `json:"explanation"`
	CalculatedAt     time.Time          `json:"calculatedAt"`
	ModelVersion     string             `json:"modelVersion"`
}

// RiskLevel bands a risk score. The risk assessor uses <=0.25 low,
// <=0.50 medium, <=0.75 high, else critical; the supply-chain verifier
// uses <0.25 low, <0.50 medium, <0.80 high, else critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskCategory is a single risk dimension with its contributing factors.
type RiskCategory struct {
	Level   RiskLevel `json:"level"`
	Score   float64   `json:"score"`
	Factors []string  `json:"factors"`
}

// RiskAssessment is the six-category risk verdict for an
// (organization, opportunity) pair. Unique per pair.
type RiskAssessment struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OpportunityID  uuid.UUID `json:"opportunityId"`

	OverallRiskLevel RiskLevel `json:"overallRiskLevel"`
	OverallRiskScore float64   `json:"overallRiskScore"`

	EligibilityRisk RiskCategory `json:"eligibilityRisk"`
	TechnicalRisk   RiskCategory `json:"technicalRisk"`
	PricingRisk     RiskCategory `json:"pricingRisk"`
	ResourceRisk    RiskCategory `json:"resourceRisk"`
	ComplianceRisk  RiskCategory `json:"complianceRisk"`
	TimelineRisk    RiskCategory `json:"timelineRisk"`

	RiskFactors           []string  `json:"riskFactors"`
	MitigationSuggestions []string  `json:"mitigationSuggestions"`
	AssessedAt            time.Time `json:"assessedAt"`
	ModelVersion          string    `json:"modelVersion"`
}

// IngestionStatus is the lifecycle of a feed ingestion job.
type IngestionStatus string

const (
	IngestionQueued    IngestionStatus = "queued"
	IngestionRunning   IngestionStatus = "running"
	IngestionCompleted IngestionStatus = "completed"
	IngestionFailed    IngestionStatus = "failed"
)

// IngestionLog is one row per ingestion trigger.
type IngestionLog struct {
	ID              uuid.UUID       `json:"id"`
	SourceSystem    string          `json:"sourceSystem"`
	Status          IngestionStatus `json:"status"`
	StartedAt       time.Time       `json:"startedAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	RecordsFetched  int             `json:"recordsFetched"`
	RecordsInserted int             `json:"recordsInserted"`
	RecordsUpdated  int             `json:"recordsUpdated"`
	RecordsFailed   int             `json:"recordsFailed"`
	ErrorMessage    string          `json:"errorMessage,omitempty"`
}
