package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

// FileFetcher reads a JSON array of raw records from disk. It backs the
// inspect command and the sample-data fallback.
type FileFetcher struct {
	provider domain.Provider
	path     string
}

func NewFileFetcher(provider domain.Provider, path string) *FileFetcher {
	return &FileFetcher{provider: provider, path: path}
}

func (f *FileFetcher) Provider() domain.Provider { return f.provider }
func (f *FileFetcher) Name() string              { return "file:" + f.path }

func (f *FileFetcher) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return DecodeArray(b)
}

// DecodeArray splits a JSON array into its elements. A top-level
// {"data": [...]} or {"records": [...]} wrapper is unwrapped.
func DecodeArray(b []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err == nil {
		if items == nil {
			items = []json.RawMessage{}
		}
		return items, nil
	}

	var wrapped struct {
		Data    []json.RawMessage `json:"data"`
		Records []json.RawMessage `json:"records"`
		Posts   []json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	switch {
	case wrapped.Data != nil:
		return wrapped.Data, nil
	case wrapped.Records != nil:
		return wrapped.Records, nil
	case wrapped.Posts != nil:
		return wrapped.Posts, nil
	}
	return []json.RawMessage{}, nil
}
