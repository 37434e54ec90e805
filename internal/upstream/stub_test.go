package upstream

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

type stubFetcher struct {
	name    string
	records []json.RawMessage
	err     error
	calls   atomic.Int32
}

func (s *stubFetcher) Provider() domain.Provider { return domain.ProviderNews }
func (s *stubFetcher) Name() string              { return s.name }

func (s *stubFetcher) Fetch(context.Context) ([]json.RawMessage, error) {
	s.calls.Add(1)
	return s.records, s.err
}

func raws(values ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		out = append(out, json.RawMessage(v))
	}
	return out
}
