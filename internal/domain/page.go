package domain

// UncategorizedKey buckets records without a category.
const UncategorizedKey = "uncategorized"

// PageRequest is a caller's requested page. Values are clamped, not rejected.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PaginationMeta describes the returned page. Total counts filtered records.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is a window over a record slice.
type Page struct {
	Records []Record
	Meta    PaginationMeta
}

// AggregateEntry counts records sharing a key.
type AggregateEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PageResult is what the aggregation service returns for one request.
type PageResult struct {
	Provider   Provider         `json:"provider"`
	Pagination PaginationMeta   `json:"pagination"`
	Records    []Record         `json:"records"`
	Aggregates []AggregateEntry `json:"aggregates"`
	Tags       []AggregateEntry `json:"tags"`
	// Skipped counts malformed upstream records left out of the result.
	Skipped int `json:"skipped"`
}

// Navigation holds the chronological neighbours of a record.
type Navigation struct {
	Previous *Record `json:"previous"`
	Next     *Record `json:"next"`
}
