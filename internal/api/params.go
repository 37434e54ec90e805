package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const trueString = "true"

// query is the parsed request. Unparseable numbers fall back to zero, which
// the engine treats as "use the default".
type query struct {
	filters    domain.FilterSpec
	page       domain.PageRequest
	related    int
	includeRaw bool
}

func parseQuery(c *gin.Context) query {
	q := query{
		filters: domain.FilterSpec{
			Category: c.Query("category"),
			Tag:      c.Query("tag"),
			Author:   c.Query("author"),
			Search:   c.Query("search"),
		},
		page: domain.PageRequest{
			Page:  atoi(c.Query("page")),
			Limit: atoi(c.Query("limit")),
		},
		related:    atoi(c.Query("related")),
		includeRaw: strings.EqualFold(c.Query("include_raw"), trueString),
	}

	switch strings.ToLower(c.Query("featured")) {
	case trueString:
		v := true
		q.filters.Featured = &v
	case "false":
		v := false
		q.filters.Featured = &v
	}
	return q
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// present strips raw payloads unless the caller asked for them.
func (q query) present(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if !q.includeRaw {
			r = r.WithoutRaw()
		}
		out = append(out, r)
	}
	return out
}

func (q query) one(r *domain.Record) *domain.Record {
	if r == nil {
		return nil
	}
	out := *r
	if !q.includeRaw {
		out = out.WithoutRaw()
	}
	return &out
}
