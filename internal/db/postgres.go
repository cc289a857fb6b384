package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/pkg/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// OpportunityFilter narrows opportunity listings. Zero values are ignored.
type OpportunityFilter struct {
	Status      string
	NAICSPrefix string
	State       string
	SetAside    string
	Page        int
	Limit       int
}

// Store is the narrow persistence surface the engine consumes. A single
// operation is atomic; the batch score upsert is all-or-nothing.
type Store interface {
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	CreateOrganization(ctx context.Context, org *models.Organization) error
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	DeleteOrganization(ctx context.Context, id uuid.UUID) error
	ListOrganizations(ctx context.Context, page, limit int) ([]models.Organization, int, error)

	GetOpportunity(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	UpsertOpportunity(ctx context.Context, opp *models.Opportunity) (inserted bool, err error)
	ListOpportunities(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int, error)

	UpsertRelevanceScore(ctx context.Context, score *models.RelevanceScore) error
	UpsertRelevanceScores(ctx context.Context, scores []models.RelevanceScore) error
	UpsertRiskAssessment(ctx context.Context, assessment *models.RiskAssessment) error

	CreateIngestionLog(ctx context.Context, entry *models.IngestionLog) error
	UpdateIngestionLog(ctx context.Context, entry *models.IngestionLog) error
	GetIngestionLog(ctx context.Context, id uuid.UUID) (*models.IngestionLog, error)
	ListIngestionLogs(ctx context.Context, limit int) ([]models.IngestionLog, error)
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

var _ Store = (*PostgresStore)(nil)

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(ctx context.Context, connStr string, log zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Info().Msg("connected to PostgreSQL")
	return &PostgresStore{pool: pool, log: log.With().Str("component", "db").Logger()}, nil
}

// Close gracefully closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schemaBytes, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}

	if _, err := s.pool.Exec(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	s.log.Info().Msg("opportunity engine schema initialized")
	return nil
}

// ─── Organizations ──────────────────────────────────────────────────

const orgColumns = `id, name, legal_name, duns_number, uei, cage_code,
	naics_codes, psc_codes, set_aside_types,
	address_line1, city, state, zip_code, country,
	website, employee_count, annual_revenue,
	capabilities_narrative, past_performance_summary,
	created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	var legalName, duns, uei, cage, addr, city, state, zip, country, website, capabilities, pastPerf *string
	var employeeCount *int
	var revenue decimal.NullDecimal

	err := row.Scan(&org.ID, &org.Name, &legalName, &duns, &uei, &cage,
		&org.NAICSCodes, &org.PSCCodes, &org.SetAsideTypes,
		&addr, &city, &state, &zip, &country,
		&website, &employeeCount, &revenue,
		&capabilities, &pastPerf,
		&org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}

	org.LegalName = deref(legalName)
	org.DUNS = deref(duns)
	org.UEI = deref(uei)
	org.CageCode = deref(cage)
	org.AddressLine1 = deref(addr)
	org.City = deref(city)
	org.State = deref(state)
	org.ZipCode = deref(zip)
	org.Country = deref(country)
	org.Website = deref(website)
	org.EmployeeCount = employeeCount
	org.CapabilitiesNarrative = deref(capabilities)
	org.PastPerformanceSummary = deref(pastPerf)
	if revenue.Valid {
		org.AnnualRevenue = &revenue.Decimal
	}
	return &org, nil
}

func (s *PostgresStore) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
	org, err := scanOrganization(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %v", err)
	}
	return org, nil
}

func (s *PostgresStore) CreateOrganization(ctx context.Context, org *models.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	now := time.Now().UTC()
	org.CreatedAt, org.UpdatedAt = now, now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		org.ID, org.Name, nullable(org.LegalName), nullable(org.DUNS), nullable(org.UEI), nullable(org.CageCode),
		org.NAICSCodes, org.PSCCodes, org.SetAsideTypes,
		nullable(org.AddressLine1), nullable(org.City), nullable(org.State), nullable(org.ZipCode), nullable(org.Country),
		nullable(org.Website), org.EmployeeCount, org.AnnualRevenue,
		nullable(org.CapabilitiesNarrative), nullable(org.PastPerformanceSummary),
		org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert organization: %v", err)
	}
	return nil
}

func (s *PostgresStore) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE organizations SET
			name = $2, legal_name = $3, duns_number = $4, uei = $5, cage_code = $6,
			naics_codes = $7, psc_codes = $8, set_aside_types = $9,
			address_line1 = $10, city = $11, state = $12, zip_code = $13, country = $14,
			website = $15, employee_count = $16, annual_revenue = $17,
			capabilities_narrative = $18, past_performance_summary = $19,
			updated_at = $20
		WHERE id = $1`,
		org.ID, org.Name, nullable(org.LegalName), nullable(org.DUNS), nullable(org.UEI), nullable(org.CageCode),
		org.NAICSCodes, org.PSCCodes, org.SetAsideTypes,
		nullable(org.AddressLine1), nullable(org.City), nullable(org.State), nullable(org.ZipCode), nullable(org.Country),
		nullable(org.Website), org.EmployeeCount, org.AnnualRevenue,
		nullable(org.CapabilitiesNarrative), nullable(org.PastPerformanceSummary),
		org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update organization: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListOrganizations(ctx context.Context, page, limit int) ([]models.Organization, int, error) {
	page, limit = normalizePage(page, limit)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %v", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %v", err)
	}
	defer rows.Close()

	orgs := []models.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, *org)
	}
	return orgs, total, rows.Err()
}

// ─── Opportunities ──────────────────────────────────────────────────

const oppColumns = `id, source_id, source_system, title, description, notice_type,
	solicitation_number, naics_code, naics_description, psc_code, psc_description,
	set_aside_type, posted_date, response_deadline, archive_date, contract_type,
	estimated_value_min, estimated_value_max,
	place_of_performance_city, place_of_performance_state, place_of_performance_zip,
	place_of_performance_country, contracting_office_name,
	point_of_contact_name, point_of_contact_email, point_of_contact_phone,
	award_date, award_amount, awardee_name, awardee_uei,
	security_clearance_required, status, raw_data, created_at, updated_at, ingested_at`

func scanOpportunity(row pgx.Row) (*models.Opportunity, error) {
	var opp models.Opportunity
	var desc, noticeType, solNum, naics, naicsDesc, psc, pscDesc, setAside *string
	var contractType, popCity, popState, popZip, popCountry, office *string
	var pocName, pocEmail, pocPhone, awardeeName, awardeeUEI, clearance *string
	var valMin, valMax, awardAmount decimal.NullDecimal
	var rawData []byte
	var status string

	err := row.Scan(&opp.ID, &opp.SourceID, &opp.SourceSystem, &opp.Title, &desc, &noticeType,
		&solNum, &naics, &naicsDesc, &psc, &pscDesc,
		&setAside, &opp.PostedDate, &opp.ResponseDeadline, &opp.ArchiveDate, &contractType,
		&valMin, &valMax,
		&popCity, &popState, &popZip,
		&popCountry, &office,
		&pocName, &pocEmail, &pocPhone,
		&opp.AwardDate, &awardAmount, &awardeeName, &awardeeUEI,
		&clearance, &status, &rawData, &opp.CreatedAt, &opp.UpdatedAt, &opp.IngestedAt)
	if err != nil {
		return nil, err
	}

	opp.Description = deref(desc)
	opp.NoticeType = deref(noticeType)
	opp.SolicitationNumber = deref(solNum)
	opp.NAICSCode = deref(naics)
	opp.NAICSDescription = deref(naicsDesc)
	opp.PSCCode = deref(psc)
	opp.PSCDescription = deref(pscDesc)
	opp.SetAsideType = deref(setAside)
	opp.ContractType = deref(contractType)
	opp.PlaceOfPerformanceCity = deref(popCity)
	opp.PlaceOfPerformanceState = deref(popState)
	opp.PlaceOfPerformanceZip = deref(popZip)
	opp.PlaceOfPerformanceCountry = deref(popCountry)
	opp.ContractingOfficeName = deref(office)
	opp.PointOfContactName = deref(pocName)
	opp.PointOfContactEmail = deref(pocEmail)
	opp.PointOfContactPhone = deref(pocPhone)
	opp.AwardeeName = deref(awardeeName)
	opp.AwardeeUEI = deref(awardeeUEI)
	opp.SecurityClearanceRequired = deref(clearance)
	opp.Status = models.OpportunityStatus(status)
	if valMin.Valid {
		opp.EstimatedValueMin = &valMin.Decimal
	}
	if valMax.Valid {
		opp.EstimatedValueMax = &valMax.Decimal
	}
	if awardAmount.Valid {
		opp.AwardAmount = &awardAmount.Decimal
	}
	if len(rawData) > 0 {
		_ = json.Unmarshal(rawData, &opp.RawData)
	}
	return &opp, nil
}

func (s *PostgresStore) GetOpportunity(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+oppColumns+` FROM opportunities WHERE id = $1`, id)
	opp, err := scanOpportunity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load opportunity: %v", err)
	}
	return opp, nil
}

// UpsertOpportunity inserts or updates by the (source_system, source_id)
// natural key in a single statement, so concurrent ingests cannot
// duplicate. Returns whether the row was newly inserted.
func (s *PostgresStore) UpsertOpportunity(ctx context.Context, opp *models.Opportunity) (bool, error) {
	if opp.ID == uuid.Nil {
		opp.ID = uuid.New()
	}
	now := time.Now().UTC()
	if opp.IngestedAt.IsZero() {
		opp.IngestedAt = now
	}

	var rawData []byte
	if opp.RawData != nil {
		var err error
		rawData, err = json.Marshal(opp.RawData)
		if err != nil {
			return false, fmt.Errorf("failed to marshal raw data: %v", err)
		}
	}

	var inserted bool
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunities (`+oppColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36)
		ON CONFLICT (source_system, source_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			notice_type = EXCLUDED.notice_type,
			solicitation_number = EXCLUDED.solicitation_number,
			naics_code = EXCLUDED.naics_code,
			naics_description = EXCLUDED.naics_description,
			psc_code = EXCLUDED.psc_code,
			psc_description = EXCLUDED.psc_description,
			set_aside_type = EXCLUDED.set_aside_type,
			posted_date = EXCLUDED.posted_date,
			response_deadline = EXCLUDED.response_deadline,
			archive_date = EXCLUDED.archive_date,
			contract_type = EXCLUDED.contract_type,
			estimated_value_min = EXCLUDED.estimated_value_min,
			estimated_value_max = EXCLUDED.estimated_value_max,
			place_of_performance_city = EXCLUDED.place_of_performance_city,
			place_of_performance_state = EXCLUDED.place_of_performance_state,
			place_of_performance_zip = EXCLUDED.place_of_performance_zip,
			place_of_performance_country = EXCLUDED.place_of_performance_country,
			contracting_office_name = EXCLUDED.contracting_office_name,
			point_of_contact_name = EXCLUDED.point_of_contact_name,
			point_of_contact_email = EXCLUDED.point_of_contact_email,
			point_of_contact_phone = EXCLUDED.point_of_contact_phone,
			award_date = EXCLUDED.award_date,
			award_amount = EXCLUDED.award_amount,
			awardee_name = EXCLUDED.awardee_name,
			awardee_uei = EXCLUDED.awardee_uei,
			security_clearance_required = EXCLUDED.security_clearance_required,
			status = EXCLUDED.status,
			raw_data = EXCLUDED.raw_data,
			updated_at = NOW(),
			ingested_at = EXCLUDED.ingested_at
		RETURNING (xmax = 0), id`,
		opp.ID, opp.SourceID, opp.SourceSystem, opp.Title, nullable(opp.Description), nullable(opp.NoticeType),
		nullable(opp.SolicitationNumber), nullable(opp.NAICSCode), nullable(opp.NAICSDescription),
		nullable(opp.PSCCode), nullable(opp.PSCDescription),
		nullable(opp.SetAsideType), opp.PostedDate, opp.ResponseDeadline, opp.ArchiveDate, nullable(opp.ContractType),
		opp.EstimatedValueMin, opp.EstimatedValueMax,
		nullable(opp.PlaceOfPerformanceCity), nullable(opp.PlaceOfPerformanceState), nullable(opp.PlaceOfPerformanceZip),
		nullable(opp.PlaceOfPerformanceCountry), nullable(opp.ContractingOfficeName),
		nullable(opp.PointOfContactName), nullable(opp.PointOfContactEmail), nullable(opp.PointOfContactPhone),
		opp.AwardDate, opp.AwardAmount, nullable(opp.AwardeeName), nullable(opp.AwardeeUEI),
		nullable(opp.SecurityClearanceRequired), string(opp.Status), rawData, now, now, opp.IngestedAt,
	).Scan(&inserted, &opp.ID)
	if err != nil {
		return false, fmt.Errorf("failed to upsert opportunity: %v", err)
	}
	return inserted, nil
}

func (s *PostgresStore) ListOpportunities(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	where := " WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where += " AND status = " + arg(filter.Status)
	}
	if filter.NAICSPrefix != "" {
		where += " AND naics_code LIKE " + arg(filter.NAICSPrefix+"%")
	}
	if filter.State != "" {
		where += " AND place_of_performance_state = " + arg(filter.State)
	}
	if filter.SetAside != "" {
		where += " AND set_aside_type = " + arg(filter.SetAside)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM opportunities`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count opportunities: %v", err)
	}

	query := `SELECT ` + oppColumns + ` FROM opportunities` + where +
		` ORDER BY posted_date DESC NULLS LAST LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list opportunities: %v", err)
	}
	defer rows.Close()

	opps := []models.Opportunity{}
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, 0, err
		}
		opps = append(opps, *opp)
	}
	return opps, total, rows.Err()
}

// ─── Scores & assessments ───────────────────────────────────────────

const upsertScoreSQL = `
	INSERT INTO relevance_scores
		(id, organization_id, opportunity_id, overall_score, naics_score, semantic_score,
		 geographic_score, size_score, past_performance_score, component_weights,
		 explanation, calculated_at, model_version)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (organization_id, opportunity_id) DO UPDATE SET
		overall_score = EXCLUDED.overall_score,
		naics_score = EXCLUDED.naics_score,
		semantic_score = EXCLUDED.semantic_score,
		geographic_score = EXCLUDED.geographic_score,
		size_score = EXCLUDED.size_score,
		past_performance_score = EXCLUDED.past_performance_score,
		component_weights = EXCLUDED.component_weights,
		explanation = EXCLUDED.explanation,
		calculated_at = EXCLUDED.calculated_at,
		model_version = EXCLUDED.model_version`

func upsertScoreArgs(score *models.RelevanceScore) ([]any, error) {
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	if score.CalculatedAt.IsZero() {
		score.CalculatedAt = time.Now().UTC()
	}
	weights, err := json.Marshal(score.ComponentWeights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal component weights: %v", err)
	}
	return []any{
		score.ID, score.OrganizationID, score.OpportunityID,
		score.OverallScore, score.NAICSScore, score.SemanticScore,
		score.GeographicScore, score.SizeScore, score.PastPerformanceScore,
		weights, score.Explanation, score.CalculatedAt, score.ModelVersion,
	}, nil
}

// UpsertRelevanceScore writes one score row, keyed by the
// (organization_id, opportunity_id) unique constraint. The single-statement
// upsert means the last of two racing scorings wins; at most one row per
// pair ever exists.
func (s *PostgresStore) UpsertRelevanceScore(ctx context.Context, score *models.RelevanceScore) error {
	args, err := upsertScoreArgs(score)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertScoreSQL, args...); err != nil {
		return fmt.Errorf("failed to upsert relevance score: %v", err)
	}
	return nil
}

// UpsertRelevanceScores writes a batch of score rows in one transaction:
// either every row commits or none do.
func (s *PostgresStore) UpsertRelevanceScores(ctx context.Context, scores []models.RelevanceScore) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch upsert: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i := range scores {
		args, err := upsertScoreArgs(&scores[i])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsertScoreSQL, args...); err != nil {
			return fmt.Errorf("failed to upsert relevance score in batch: %v", err)
		}
	}

	return tx.Commit(ctx)
}

// UpsertRiskAssessment writes one assessment row, keyed by the
// (organization_id, opportunity_id) unique constraint.
func (s *PostgresStore) UpsertRiskAssessment(ctx context.Context, assessment *models.RiskAssessment) error {
	if assessment.ID == uuid.Nil {
		assessment.ID = uuid.New()
	}
	if assessment.AssessedAt.IsZero() {
		assessment.AssessedAt = time.Now().UTC()
	}

	marshal := func(v any) []byte {
		b, _ := json.Marshal(v)
		return b
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO risk_assessments
			(id, organization_id, opportunity_id, overall_risk_level, overall_risk_score,
			 eligibility_risk, technical_risk, pricing_risk, resource_risk, compliance_risk,
			 timeline_risk, risk_factors, mitigation_suggestions, assessed_at, model_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (organization_id, opportunity_id) DO UPDATE SET
			overall_risk_level = EXCLUDED.overall_risk_level,
			overall_risk_score = EXCLUDED.overall_risk_score,
			eligibility_risk = EXCLUDED.eligibility_risk,
			technical_risk = EXCLUDED.technical_risk,
			pricing_risk = EXCLUDED.pricing_risk,
			resource_risk = EXCLUDED.resource_risk,
			compliance_risk = EXCLUDED.compliance_risk,
			timeline_risk = EXCLUDED.timeline_risk,
			risk_factors = EXCLUDED.risk_factors,
			mitigation_suggestions = EXCLUDED.mitigation_suggestions,
			assessed_at = EXCLUDED.assessed_at,
			model_version = EXCLUDED.model_version`,
		assessment.ID, assessment.OrganizationID, assessment.OpportunityID,
		string(assessment.OverallRiskLevel), assessment.OverallRiskScore,
		marshal(assessment.EligibilityRisk), marshal(assessment.TechnicalRisk),
		marshal(assessment.PricingRisk), marshal(assessment.ResourceRisk),
		marshal(assessment.ComplianceRisk), marshal(assessment.TimelineRisk),
		marshal(assessment.RiskFactors), marshal(assessment.MitigationSuggestions),
		assessment.AssessedAt, assessment.ModelVersion)
	if err != nil {
		return fmt.Errorf("failed to upsert risk assessment: %v", err)
	}
	return nil
}

// ─── Ingestion logs ─────────────────────────────────────────────────

const ingestionLogColumns = `id, source_system, status, started_at, completed_at,
	records_fetched, records_inserted, records_updated, records_failed, error_message`

func (s *PostgresStore) CreateIngestionLog(ctx context.Context, entry *models.IngestionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingestion_logs
			(id, source_system, status, started_at, records_fetched, records_inserted,
			 records_updated, records_failed, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.SourceSystem, string(entry.Status), entry.StartedAt,
		entry.RecordsFetched, entry.RecordsInserted, entry.RecordsUpdated,
		entry.RecordsFailed, nullable(entry.ErrorMessage))
	if err != nil {
		return fmt.Errorf("failed to create ingestion log: %v", err)
	}
	return nil
}

func (s *PostgresStore) UpdateIngestionLog(ctx context.Context, entry *models.IngestionLog) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE ingestion_logs SET
			status = $2, completed_at = $3, records_fetched = $4, records_inserted = $5,
			records_updated = $6, records_failed = $7, error_message = $8
		WHERE id = $1`,
		entry.ID, string(entry.Status), entry.CompletedAt,
		entry.RecordsFetched, entry.RecordsInserted, entry.RecordsUpdated,
		entry.RecordsFailed, nullable(entry.ErrorMessage))
	if err != nil {
		return fmt.Errorf("failed to update ingestion log: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanIngestionLog(row pgx.Row) (*models.IngestionLog, error) {
	var entry models.IngestionLog
	var status string
	var errMsg *string
	err := row.Scan(&entry.ID, &entry.SourceSystem, &status, &entry.StartedAt, &entry.CompletedAt,
		&entry.RecordsFetched, &entry.RecordsInserted, &entry.RecordsUpdated, &entry.RecordsFailed, &errMsg)
	if err != nil {
		return nil, err
	}
	entry.Status = models.IngestionStatus(status)
	entry.ErrorMessage = deref(errMsg)
	return &entry, nil
}

func (s *PostgresStore) GetIngestionLog(ctx context.Context, id uuid.UUID) (*models.IngestionLog, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ingestionLogColumns+` FROM ingestion_logs WHERE id = $1`, id)
	entry, err := scanIngestionLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingestion log: %v", err)
	}
	return entry, nil
}

func (s *PostgresStore) ListIngestionLogs(ctx context.Context, limit int) ([]models.IngestionLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `SELECT `+ingestionLogColumns+` FROM ingestion_logs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion logs: %v", err)
	}
	defer rows.Close()

	logs := []models.IngestionLog{}
	for rows.Next() {
		entry, err := scanIngestionLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *entry)
	}
	return logs, rows.Err()
}

// ─── Helpers ────────────────────────────────────────────────────────

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps empty strings to SQL NULL so the partial unique index on
// uei and the listing filters behave.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizePage applies the default (20) and maximum (100) page sizes.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
