package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureon/opportunity-engine/internal/db"
	"github.com/aureon/opportunity-engine/pkg/models"
)

// memStore is an in-memory db.Store for exercising the ingester offline.
type memStore struct {
	mu            sync.Mutex
	opportunities map[string]models.Opportunity // keyed by source_system|source_id
	logs          map[uuid.UUID]models.IngestionLog
	failUpsertFor string // source_id that should fail upserts
}

var _ db.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		opportunities: make(map[string]models.Opportunity),
		logs:          make(map[uuid.UUID]models.IngestionLog),
	}
}

func (m *memStore) UpsertOpportunity(_ context.Context, opp *models.Opportunity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opp.SourceID == m.failUpsertFor {
		return false, fmt.Errorf("simulated storage failure for %s", opp.SourceID)
	}

	key := opp.SourceSystem + "|" + opp.SourceID
	existing, ok := m.opportunities[key]
	if ok {
		opp.ID = existing.ID
		m.opportunities[key] = *opp
		return false, nil
	}
	if opp.ID == uuid.Nil {
		opp.ID = uuid.New()
	}
	m.opportunities[key] = *opp
	return true, nil
}

func (m *memStore) CreateIngestionLog(_ context.Context, entry *models.IngestionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}
	m.logs[entry.ID] = *entry
	return nil
}

func (m *memStore) UpdateIngestionLog(_ context.Context, entry *models.IngestionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logs[entry.ID]; !ok {
		return db.ErrNotFound
	}
	m.logs[entry.ID] = *entry
	return nil
}

func (m *memStore) GetIngestionLog(_ context.Context, id uuid.UUID) (*models.IngestionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.logs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &entry, nil
}

func (m *memStore) ListIngestionLogs(_ context.Context, _ int) ([]models.IngestionLog, error) {
	return nil, nil
}

// The ingester never touches the remaining Store surface.
func (m *memStore) GetOrganization(context.Context, uuid.UUID) (*models.Organization, error) {
	return nil, db.ErrNotFound
}
func (m *memStore) CreateOrganization(context.Context, *models.Organization) error { return nil }
func (m *memStore) UpdateOrganization(context.Context, *models.Organization) error { return nil }
func (m *memStore) DeleteOrganization(context.Context, uuid.UUID) error            { return nil }
func (m *memStore) ListOrganizations(context.Context, int, int) ([]models.Organization, int, error) {
	return nil, 0, nil
}
func (m *memStore) GetOpportunity(context.Context, uuid.UUID) (*models.Opportunity, error) {
	return nil, db.ErrNotFound
}
func (m *memStore) ListOpportunities(context.Context, db.OpportunityFilter) ([]models.Opportunity, int, error) {
	return nil, 0, nil
}
func (m *memStore) UpsertRelevanceScore(context.Context, *models.RelevanceScore) error  { return nil }
func (m *memStore) UpsertRelevanceScores(context.Context, []models.RelevanceScore) error { return nil }
func (m *memStore) UpsertRiskAssessment(context.Context, *models.RiskAssessment) error  { return nil }

// failingFetcher simulates a feed outage.
type failingFetcher struct{}

func (f failingFetcher) SourceSystem() string { return "sam.gov" }
func (f failingFetcher) Fetch(context.Context, FetchParams) ([]models.RawOpportunity, error) {
	return nil, errors.New("feed unavailable: 503")
}

// fixedFetcher returns a canned record list.
type fixedFetcher struct {
	records []models.RawOpportunity
}

func (f fixedFetcher) SourceSystem() string { return "sam.gov" }
func (f fixedFetcher) Fetch(context.Context, FetchParams) ([]models.RawOpportunity, error) {
	return f.records, nil
}

func newLogEntry(t *testing.T, store db.Store) *models.IngestionLog {
	t.Helper()
	entry := &models.IngestionLog{SourceSystem: "sam.gov", Status: models.IngestionQueued}
	require.NoError(t, store.CreateIngestionLog(context.Background(), entry))
	return entry
}

func TestRun_StubFetcherCompletes(t *testing.T) {
	store := newMemStore()
	ing := NewIngester(NewStubFetcher(nil), store, zerolog.Nop(), nil)
	entry := newLogEntry(t, store)

	stats, err := ing.Run(context.Background(), entry, FetchParams{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.Inserted)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 0, stats.Failed)

	final, err := store.GetIngestionLog(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IngestionCompleted, final.Status)
	assert.NotNil(t, final.CompletedAt)
	assert.Equal(t, 3, final.RecordsInserted)
}

func TestRun_Idempotent(t *testing.T) {
	store := newMemStore()
	ing := NewIngester(NewStubFetcher(nil), store, zerolog.Nop(), nil)

	_, err := ing.Run(context.Background(), newLogEntry(t, store), FetchParams{})
	require.NoError(t, err)

	// Re-ingesting the same records updates, never duplicates.
	stats, err := ing.Run(context.Background(), newLogEntry(t, store), FetchParams{})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 3, stats.Updated)
	assert.Len(t, store.opportunities, 3)
}

func TestRun_FetchFailureFailsJob(t *testing.T) {
	store := newMemStore()
	ing := NewIngester(failingFetcher{}, store, zerolog.Nop(), nil)
	entry := newLogEntry(t, store)

	_, err := ing.Run(context.Background(), entry, FetchParams{})
	require.Error(t, err)

	final, getErr := store.GetIngestionLog(context.Background(), entry.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.IngestionFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "feed unavailable")
	assert.Empty(t, store.opportunities, "no partial opportunities on fetch failure")
}

func TestRun_PerRecordFailuresDoNotAbort(t *testing.T) {
	store := newMemStore()
	fetcher := fixedFetcher{records: []models.RawOpportunity{
		{NoticeID: "OK-1", Title: "Valid record"},
		{NoticeID: "BAD-1"}, // no title: parse failure
		{NoticeID: "OK-2", Title: "Another valid record"},
	}}
	ing := NewIngester(fetcher, store, zerolog.Nop(), nil)
	entry := newLogEntry(t, store)

	stats, err := ing.Run(context.Background(), entry, FetchParams{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Failed)

	final, _ := store.GetIngestionLog(context.Background(), entry.ID)
	assert.Equal(t, models.IngestionCompleted, final.Status)
	assert.Equal(t, 1, final.RecordsFailed)
}

func TestRun_StorageFailuresCountAsFailed(t *testing.T) {
	store := newMemStore()
	store.failUpsertFor = "SAMPLE-002"
	ing := NewIngester(NewStubFetcher(nil), store, zerolog.Nop(), nil)

	stats, err := ing.Run(context.Background(), newLogEntry(t, store), FetchParams{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Failed)
}

func TestRun_AlertsFire(t *testing.T) {
	store := newMemStore()
	var alerts []OpportunityAlert
	ing := NewIngester(NewStubFetcher(nil), store, zerolog.Nop(), func(a OpportunityAlert) {
		alerts = append(alerts, a)
	})

	_, err := ing.Run(context.Background(), newLogEntry(t, store), FetchParams{})
	require.NoError(t, err)

	require.Len(t, alerts, 3)
	assert.True(t, alerts[0].Inserted)
	assert.NotEmpty(t, alerts[0].Title)
}
