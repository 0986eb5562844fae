package cfpb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

const (
	defaultBaseURL  = "https://www.consumerfinance.gov/data-research/consumer-complaints/search/api/v1"
	defaultPageSize = 100
)

// Client fetches consumer complaints from the CFPB Consumer Complaint
// Database search API. Pagination, retries, and backoff are handled here so
// the pipeline core only sees a synchronous fetch-complete-window contract.
type Client struct {
	client   *resty.Client
	baseURL  string
	pageSize int
}

// Config holds configuration for the CFPB client.
type Config struct {
	BaseURL    string
	PageSize   int
	Timeout    time.Duration
	RetryCount int
}

// NewClient creates a new CFPB API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetRetryMaxWaitTime(20 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() == 429 || r.StatusCode() >= 500
	})

	return &Client{
		client:   client,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

// GetSourceID returns the unique identifier for this source.
func (c *Client) GetSourceID() string {
	return "cfpb"
}

// GetDisplayName returns a human-readable name for this source.
func (c *Client) GetDisplayName() string {
	return "CFPB Consumer Complaint Database"
}

// Elasticsearch-style search response envelope
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Index  string       `json:"_index"`
			ID     string       `json:"_id"`
			Source searchRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type searchRecord struct {
	ComplaintID           string   `json:"complaint_id"`
	DateReceived          string   `json:"date_received"`
	Product               string   `json:"product"`
	SubProduct            string   `json:"sub_product"`
	Issue                 string   `json:"issue"`
	SubIssue              string   `json:"sub_issue"`
	Company               string   `json:"company"`
	State                 string   `json:"state"`
	ZipCode               string   `json:"zip_code"`
	SubmittedVia          string   `json:"submitted_via"`
	CompanyResponse       string   `json:"company_response"`
	CompanyPublicResponse string   `json:"company_public_response"`
	ConsumerDisputed      string   `json:"consumer_disputed"`
	Timely                string   `json:"timely"`
	DateSentToCompany     string   `json:"date_sent_to_company"`
	Narrative             string   `json:"complaint_what_happened"`
	Tags                  []string `json:"tags"`
}

// FetchWindow fetches every complaint for one company over an inclusive date
// window, paging through the search API until the window is exhausted.
func (c *Client) FetchWindow(ctx context.Context, company string, window domain.DateRange) ([]domain.Complaint, error) {
	var all []domain.Complaint

	for from := 0; ; from += c.pageSize {
		page, err := c.fetchPage(ctx, company, window, from)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < c.pageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, company string, window domain.DateRange, from int) ([]domain.Complaint, error) {
	var resp searchResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"date_received_min": window.Start.String(),
			"date_received_max": window.End.String(),
			"search_term":       company,
			"field":             "company",
			"size":              strconv.Itoa(c.pageSize),
			"frm":               strconv.Itoa(from),
			"sort":              "created_date_desc",
			"no_aggs":           "true",
			"format":            "json",
		}).
		SetResult(&resp).
		Get(c.baseURL)

	if err != nil {
		return nil, fmt.Errorf("failed to call CFPB API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		return nil, fmt.Errorf("CFPB API error: status %d", httpResp.StatusCode())
	}

	complaints := make([]domain.Complaint, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		complaint, err := hit.Source.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode complaint %s: %w", hit.ID, err)
		}
		complaints = append(complaints, complaint)
	}
	return complaints, nil
}

func (r searchRecord) toDomain() (domain.Complaint, error) {
	received, err := parseAPIDate(r.DateReceived)
	if err != nil {
		return domain.Complaint{}, fmt.Errorf("date_received: %w", err)
	}

	// date_sent_to_company can be empty for fresh complaints
	var sent domain.Date
	if r.DateSentToCompany != "" {
		sent, err = parseAPIDate(r.DateSentToCompany)
		if err != nil {
			return domain.Complaint{}, fmt.Errorf("date_sent_to_company: %w", err)
		}
	}

	return domain.Complaint{
		ComplaintID:           r.ComplaintID,
		DateReceived:          received,
		Product:               r.Product,
		SubProduct:            r.SubProduct,
		Issue:                 r.Issue,
		SubIssue:              r.SubIssue,
		Company:               r.Company,
		State:                 r.State,
		ZipCode:               r.ZipCode,
		SubmittedVia:          r.SubmittedVia,
		CompanyResponse:       r.CompanyResponse,
		CompanyPublicResponse: r.CompanyPublicResponse,
		ConsumerDisputed:      r.ConsumerDisputed,
		Timely:                r.Timely,
		DateSentToCompany:     sent,
		Narrative:             r.Narrative,
		Tags:                  r.Tags,
	}, nil
}

// parseAPIDate accepts both plain dates and the ISO timestamps the search
// API returns on some fields.
func parseAPIDate(s string) (domain.Date, error) {
	if len(s) > len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	return domain.ParseDate(s)
}
