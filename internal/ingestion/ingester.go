package ingestion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// Feed Ingester
//
// Fetch → parse → upsert. The fetch precedes any write, so a feed failure
// commits nothing and fails the whole job. Per-record parse failures
// increment the failed counter without aborting the batch; upserts are
// idempotent on (source_system, source_id).

// Stats are the counters for one ingestion run.
type Stats struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// OpportunityAlert is pushed to the event callback for every record that
// lands, so dashboards can stream new notices as they arrive.
type OpportunityAlert struct {
	OpportunityID string `json:"opportunityId"`
	SourceID      string `json:"sourceId"`
	Title         string `json:"title"`
	NAICSCode     string `json:"naicsCode,omitempty"`
	SetAsideType  string `json:"setAsideType,omitempty"`
	Inserted      bool   `json:"inserted"`
}

// Ingester drives ingestion jobs against an injected fetcher and store.
type Ingester struct {
	fetcher   Fetcher
	store     db.Store
	log       zerolog.Logger
	alertFunc func(OpportunityAlert)
}

// NewIngester wires an ingester. alertFunc may be nil.
func NewIngester(fetcher Fetcher, store db.Store, log zerolog.Logger, alertFunc func(OpportunityAlert)) *Ingester {
	return &Ingester{
		fetcher:   fetcher,
		store:     store,
		log:       log.With().Str("component", "ingestion").Logger(),
		alertFunc: alertFunc,
	}
}

// SourceSystem exposes the underlying feed name.
func (ing *Ingester) SourceSystem() string { return ing.fetcher.SourceSystem() }

// Run executes one ingestion job against an already-created log entry,
// transitioning it queued → running → completed/failed and keeping its
// counters current. Defaults the posted-date window to the last 30 days.
func (ing *Ingester) Run(ctx context.Context, entry *models.IngestionLog, params FetchParams) (Stats, error) {
	stats := Stats{}

	if params.PostedFrom == "" {
		params.PostedFrom = time.Now().UTC().AddDate(0, 0, -30).Format("01/02/2006")
	}
	if params.PostedTo == "" {
		params.PostedTo = time.Now().UTC().Format("01/02/2006")
	}

	entry.Status = models.IngestionRunning
	if err := ing.store.UpdateIngestionLog(ctx, entry); err != nil {
		ing.log.Warn().Err(err).Msg("failed to mark ingestion log running")
	}

	ing.log.Info().
		Str("source", ing.fetcher.SourceSystem()).
		Str("postedFrom", params.PostedFrom).
		Str("postedTo", params.PostedTo).
		Msg("starting feed ingestion")

	records, err := ing.fetcher.Fetch(ctx, params)
	if err != nil {
		ing.finish(ctx, entry, stats, models.IngestionFailed, err.Error())
		return stats, err
	}
	stats.Fetched = len(records)

	for _, raw := range records {
		opp, warnings, err := ParseOpportunity(raw, ing.fetcher.SourceSystem())
		if err != nil {
			ing.log.Warn().Err(err).Str("noticeId", raw.NoticeID).Msg("failed to parse record")
			stats.Failed++
			continue
		}
		for _, w := range warnings {
			ing.log.Warn().Str("noticeId", raw.NoticeID).Msg(w)
		}

		inserted, err := ing.store.UpsertOpportunity(ctx, &opp)
		if err != nil {
			ing.log.Warn().Err(err).Str("noticeId", raw.NoticeID).Msg("failed to store record")
			stats.Failed++
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}

		if ing.alertFunc != nil {
			ing.alertFunc(OpportunityAlert{
				OpportunityID: opp.ID.String(),
				SourceID:      opp.SourceID,
				Title:         opp.Title,
				NAICSCode:     opp.NAICSCode,
				SetAsideType:  opp.SetAsideType,
				Inserted:      inserted,
			})
		}
	}

	ing.finish(ctx, entry, stats, models.IngestionCompleted, "")
	ing.log.Info().
		Int("fetched", stats.Fetched).
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("failed", stats.Failed).
		Msg("feed ingestion complete")

	return stats, nil
}

// finish stamps the terminal status and counters onto the log entry.
func (ing *Ingester) finish(ctx context.Context, entry *models.IngestionLog, stats Stats, status models.IngestionStatus, errMsg string) {
	now := time.Now().UTC()
	entry.Status = status
	entry.CompletedAt = &now
	entry.RecordsFetched = stats.Fetched
	entry.RecordsInserted = stats.Inserted
	entry.RecordsUpdated = stats.Updated
	entry.RecordsFailed = stats.Failed
	entry.ErrorMessage = errMsg

	if err := ing.store.UpdateIngestionLog(ctx, entry); err != nil {
		ing.log.Error().Err(err).Msg("failed to finalize ingestion log")
	}
}
