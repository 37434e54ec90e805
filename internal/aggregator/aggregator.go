// Package aggregator is the content engine facade: it normalizes raw
// provider payloads, counts facets, filters and paginates, all in memory and
// without I/O. A Service is safe for concurrent use.
package aggregator

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/aggregate"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/filter"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/normalizer"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/pagination"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/slug"
)

// DefaultRelatedLimit caps Related when the caller passes no limit.
const DefaultRelatedLimit = 3

// DefaultLimits are the page sizes used when a request has no limit.
func DefaultLimits() map[domain.Provider]int {
	return map[domain.Provider]int{
		domain.ProviderBlog:  10,
		domain.ProviderNews:  20,
		domain.ProviderTools: 20,
	}
}

// Options configures New.
type Options struct {
	// Registry defaults to normalizer.Default(SiteURL).
	Registry *normalizer.Registry
	SiteURL  string
	// MaxLimit caps page sizes. Defaults to pagination.DefaultMaxLimit.
	MaxLimit int
	// DefaultLimits overrides per-provider default page sizes.
	DefaultLimits map[domain.Provider]int
	Logger        logger.Logger
}

// Service runs the aggregation pipeline.
type Service struct {
	registry      *normalizer.Registry
	paginator     *pagination.Paginator
	defaultLimits map[domain.Provider]int
	log           logger.Logger
}

// New builds a Service from opts.
func New(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = normalizer.Default(opts.SiteURL)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	limits := DefaultLimits()
	for p, n := range opts.DefaultLimits {
		if n > 0 {
			limits[p] = n
		}
	}

	return &Service{
		registry:      opts.Registry,
		paginator:     pagination.New(opts.MaxLimit),
		defaultLimits: limits,
		log:           opts.Logger,
	}
}

// DefaultLimit is the page size used for p when a request omits one.
func (s *Service) DefaultLimit(p domain.Provider) int {
	if n, ok := s.defaultLimits[p]; ok {
		return n
	}
	return s.paginator.MaxLimit()
}

// GetPage normalizes raws, skipping malformed records, drops hidden ones,
// orders the rest newest first, counts categories and tags over that
// unfiltered set, then filters and paginates. A zero limit takes the
// provider default. It fails only for an unregistered provider.
func (s *Service) GetPage(
	p domain.Provider,
	raws []json.RawMessage,
	filters domain.FilterSpec,
	req domain.PageRequest,
) (*domain.PageResult, error) {
	set, err := s.Prepare(p, raws)
	if err != nil {
		return nil, err
	}

	if req.Limit == 0 {
		req.Limit = s.DefaultLimit(p)
	}

	page := s.paginator.Paginate(filter.Apply(set.Records, filters), req)

	return &domain.PageResult{
		Provider:   p,
		Pagination: page.Meta,
		Records:    page.Records,
		Aggregates: aggregate.CategoryCounts(set.Records),
		Tags:       aggregate.TagCounts(set.Records),
		Skipped:    set.Skipped,
	}, nil
}

// Categories returns the category counts of the visible records.
func (s *Service) Categories(p domain.Provider, raws []json.RawMessage) ([]domain.AggregateEntry, error) {
	set, err := s.Prepare(p, raws)
	if err != nil {
		return nil, err
	}
	return aggregate.CategoryCounts(set.Records), nil
}

// FindBySlug prepares raws and calls Set.FindBySlug.
func (s *Service) FindBySlug(p domain.Provider, raws []json.RawMessage, want string) (*domain.Record, error) {
	set, err := s.Prepare(p, raws)
	if err != nil {
		return nil, err
	}
	return set.FindBySlug(want)
}

// Related prepares raws and calls Set.Related.
func (s *Service) Related(p domain.Provider, raws []json.RawMessage, id string, limit int) ([]domain.Record, error) {
	set, err := s.Prepare(p, raws)
	if err != nil {
		return nil, err
	}
	return set.Related(id, limit)
}

// Navigation prepares raws and calls Set.Navigation.
func (s *Service) Navigation(p domain.Provider, raws []json.RawMessage, want string) (domain.Navigation, error) {
	set, err := s.Prepare(p, raws)
	if err != nil {
		return domain.Navigation{}, err
	}
	return set.Navigation(want)
}

// Set is the visible records of one provider in presentation order. It is
// read-only once built, so lookups can share it.
type Set struct {
	Provider domain.Provider
	Records  []domain.Record
	// Skipped counts malformed records.
	Skipped  int
}

// Prepare normalizes raws once for several lookups: malformed records are
// skipped, hidden ones dropped, the rest sorted newest first and given
// slugs unique within the set.
func (s *Service) Prepare(p domain.Provider, raws []json.RawMessage) (*Set, error) {
	n, err := s.registry.Lookup(p)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(raws))
	skipped := 0
	for i, raw := range raws {
		rec, normErr := n.Normalize(raw)
		if normErr != nil {
			var malformed *domain.MalformedRecordError
			if !errors.As(normErr, &malformed) {
				return nil, normErr
			}
			skipped++
			s.log.Warn("Skipping malformed record",
				logger.Provider(string(p)),
				logger.Int("index", i),
				logger.String("reason", malformed.Reason),
			)
			continue
		}
		if rec.Hidden {
			continue
		}
		records = append(records, rec)
	}

	SortNewestFirst(records)
	linker, _ := n.(normalizer.Linker)
	if renamed := uniqueSlugs(records, linker); renamed > 0 {
		s.log.Debug("Disambiguated colliding slugs",
			logger.Provider(string(p)),
			logger.Int("renamed", renamed),
		)
	}
	return &Set{Provider: p, Records: records, Skipped: skipped}, nil
}

// FindBySlug returns the record whose slug equals the normalized form of
// want, or domain.ErrNotFound.
func (set *Set) FindBySlug(want string) (*domain.Record, error) {
	i := indexOfSlug(set.Records, want)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	rec := set.Records[i]
	return &rec, nil
}

// Related returns up to limit other records sharing the category or a tag
// with the record identified by id, newest first.
func (set *Set) Related(id string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var target *domain.Record
	for i := range set.Records {
		if set.Records[i].ID == id {
			target = &set.Records[i]
			break
		}
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}

	related := filter.Match(set.Records, func(r *domain.Record) bool {
		return r.ID != target.ID && (sameCategory(r, target) || sharesTag(r, target))
	})
	return related[:min(limit, len(related))], nil
}

// Navigation returns the records immediately newer (Previous) and older
// (Next) than the record with slug want.
func (set *Set) Navigation(want string) (domain.Navigation, error) {
	i := indexOfSlug(set.Records, want)
	if i < 0 {
		return domain.Navigation{}, domain.ErrNotFound
	}

	var nav domain.Navigation
	if i > 0 {
		prev := set.Records[i-1]
		nav.Previous = &prev
	}
	if i < len(set.Records)-1 {
		next := set.Records[i+1]
		nav.Next = &next
	}
	return nav, nil
}

// uniqueSlugs suffixes repeated slugs with -2, -3, ... so every slug in
// records is distinct. Records are visited oldest first, so the oldest
// holder keeps the plain slug; a suffix never takes a slug another record
// already derived. linker, when set, rebuilds the URL of a renamed record.
func uniqueSlugs(records []domain.Record, linker normalizer.Linker) int {
	derived := make(map[string]bool, len(records))
	for i := range records {
		derived[records[i].Slug] = true
	}

	taken := make(map[string]bool, len(records))
	renamed := 0
	for i := len(records) - 1; i >= 0; i-- {
		rec := &records[i]
		if !taken[rec.Slug] {
			taken[rec.Slug] = true
			continue
		}
		next := rec.Slug
		for n := 2; taken[next] || derived[next]; n++ {
			next = rec.Slug + "-" + strconv.Itoa(n)
		}
		rec.Slug = next
		if linker != nil {
			rec.URL = linker.Link(next)
		}
		taken[next] = true
		renamed++
	}
	return renamed
}

func indexOfSlug(records []domain.Record, want string) int {
	want = slug.Normalize(want)
	if want == "" {
		return -1
	}
	for i := range records {
		if records[i].Slug == want {
			return i
		}
	}
	return -1
}

func sameCategory(a, b *domain.Record) bool {
	return a.Category != "" && strings.EqualFold(strings.TrimSpace(a.Category), strings.TrimSpace(b.Category))
}

func sharesTag(a, b *domain.Record) bool {
	for _, x := range a.Tags {
		for _, y := range b.Tags {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) {
				return true
			}
		}
	}
	return false
}
