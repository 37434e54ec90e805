package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const (
	defaultAirtableURL = "https://api.airtable.com/v0"
	airtablePageSize   = 100
)

// AirtableConfig configures AirtableFetcher.
type AirtableConfig struct {
	Token  string
	BaseID string
	Table  string
	View   string
	// BaseURL defaults to the public API.
	BaseURL string
	// MaxRecords stops pagination early. Zero means 1000.
	MaxRecords int
}

// AirtableFetcher lists tool records from an Airtable table, following
// offset pagination.
type AirtableFetcher struct {
	cfg    AirtableConfig
	caller *caller
}

// NewAirtableFetcher fails with ErrNotConfigured without token, base or table.
func NewAirtableFetcher(cfg AirtableConfig, opts HTTPOptions) (*AirtableFetcher, error) {
	if cfg.Token == "" || cfg.BaseID == "" || cfg.Table == "" {
		return nil, fmt.Errorf("airtable: %w", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAirtableURL
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 1000
	}
	return &AirtableFetcher{cfg: cfg, caller: newCaller("airtable", opts)}, nil
}

func (f *AirtableFetcher) Provider() domain.Provider { return domain.ProviderTools }
func (f *AirtableFetcher) Name() string              { return "airtable" }

type airtablePage struct {
	Records []json.RawMessage `json:"records"`
	Offset  string            `json:"offset"`
}

// Fetch returns the raw records, each still in {id, createdTime, fields}
// form.
func (f *AirtableFetcher) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	endpoint := f.cfg.BaseURL + "/" + url.PathEscape(f.cfg.BaseID) + "/" + url.PathEscape(f.cfg.Table)
	header := http.Header{"Authorization": []string{"Bearer " + f.cfg.Token}}

	records := make([]json.RawMessage, 0, airtablePageSize)
	offset := ""
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(airtablePageSize))
		if f.cfg.View != "" {
			q.Set("view", f.cfg.View)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		body, err := f.caller.get(ctx, endpoint+"?"+q.Encode(), header)
		if err != nil {
			return nil, err
		}

		var page airtablePage
		if err = json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("airtable: decode page: %w", err)
		}
		records = append(records, page.Records...)

		if page.Offset == "" || len(records) >= f.cfg.MaxRecords {
			break
		}
		offset = page.Offset
	}

	if len(records) > f.cfg.MaxRecords {
		records = records[:f.cfg.MaxRecords]
	}
	return records, nil
}
