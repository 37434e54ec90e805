// Package pagination slices ordered record sets into pages.
package pagination

import "github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"

// DefaultMaxLimit caps the page size when none is configured.
const DefaultMaxLimit = 100

// Paginator clamps requests and slices pages. It never reorders records.
type Paginator struct {
	maxLimit int
}

// New returns a Paginator capping limits at maxLimit (DefaultMaxLimit when
// maxLimit <= 0).
func New(maxLimit int) *Paginator {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &Paginator{maxLimit: maxLimit}
}

// MaxLimit is the configured ceiling.
func (p *Paginator) MaxLimit() int {
	return p.maxLimit
}

// Clamp forces page >= 1 and 1 <= limit <= MaxLimit.
func (p *Paginator) Clamp(req domain.PageRequest) domain.PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 1
	}
	if req.Limit > p.maxLimit {
		req.Limit = p.maxLimit
	}
	return req
}

// Paginate returns the window [(page-1)*limit, page*limit) of records after
// clamping req. Pages past the end are empty but keep accurate totals.
func (p *Paginator) Paginate(records []domain.Record, req domain.PageRequest) domain.Page {
	req = p.Clamp(req)
	total := len(records)

	start := total
	if req.Page-1 < (total+req.Limit-1)/req.Limit {
		start = (req.Page - 1) * req.Limit
	}
	end := min(start+req.Limit, total)

	window := make([]domain.Record, end-start)
	copy(window, records[start:end])

	return domain.Page{
		Records: window,
		Meta: domain.PaginationMeta{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: TotalPages(total, req.Limit),
		},
	}
}

// TotalPages is ceil(total/limit), 0 when total is 0.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
