package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aureon/opportunity-engine/pkg/models"
)

// FetchParams filter a feed pull. Dates use the feed's MM/DD/YYYY form.
type FetchParams struct {
	NAICSCodes    []string
	PostedFrom    string
	PostedTo      string
	NoticeTypes   []string
	SetAsideCodes []string
	Limit         int
}

// Fetcher supplies raw opportunity records from a feed. Implementations:
// SAMGovClient for the live API, StubFetcher for offline use.
type Fetcher interface {
	Fetch(ctx context.Context, params FetchParams) ([]models.RawOpportunity, error)
	SourceSystem() string
}

// feedMaxLimit is the SAM.gov API's per-request record cap.
const feedMaxLimit = 1000

// SAMGovClient fetches opportunities from the SAM.gov public search API.
type SAMGovClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewSAMGovClient builds a feed client. The timeout bounds each request;
// the client's idle connections are released when each fetch completes.
func NewSAMGovClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *SAMGovClient {
	if baseURL == "" {
		baseURL = "https://api.sam.gov/opportunities/v2/search"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SAMGovClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "sam_gov").Logger(),
	}
}

// SourceSystem names the feed for ingestion logs and the opportunity
// natural key.
func (c *SAMGovClient) SourceSystem() string { return "sam.gov" }

// Fetch pulls one page of opportunities. A fetch-level failure fails the
// whole ingestion job; the caller never sees partial pages.
func (c *SAMGovClient) Fetch(ctx context.Context, params FetchParams) ([]models.RawOpportunity, error) {
	defer c.client.CloseIdleConnections()

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("postedFrom", params.PostedFrom)
	q.Set("postedTo", params.PostedTo)
	q.Set("offset", "0")

	limit := params.Limit
	if limit <= 0 || limit > feedMaxLimit {
		limit = feedMaxLimit
	}
	q.Set("limit", strconv.Itoa(limit))

	if len(params.NAICSCodes) > 0 {
		q.Set("ncode", strings.Join(params.NAICSCodes, ","))
	}
	if len(params.NoticeTypes) > 0 {
		q.Set("ptype", strings.Join(params.NoticeTypes, ","))
	}
	if len(params.SetAsideCodes) > 0 {
		q.Set("typeOfSetAside", strings.Join(params.SetAsideCodes, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := string(body)
		if len(detail) > 500 {
			detail = detail[:500]
		}
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		TotalRecords      int               `json:"totalRecords"`
		OpportunitiesData []json.RawMessage `json:"opportunitiesData"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %v", err)
	}

	records := make([]models.RawOpportunity, 0, len(payload.OpportunitiesData))
	for _, raw := range payload.OpportunitiesData {
		records = append(records, decodeRaw(raw))
	}

	c.log.Debug().
		Int("count", len(records)).
		Int("total", payload.TotalRecords).
		Msg("fetched opportunities from feed")

	return records, nil
}

// decodeRaw unmarshals a feed record twice: once into the typed shape and
// once into a generic map so unknown fields survive into raw_data.
func decodeRaw(raw json.RawMessage) models.RawOpportunity {
	var rec models.RawOpportunity
	_ = json.Unmarshal(raw, &rec)
	_ = json.Unmarshal(raw, &rec.Extra)
	return rec
}
