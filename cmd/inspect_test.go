package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/config"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"A","title":"GPT-4 Turbo!!","category":"AI","published_at":"2024-03-01T00:00:00Z"},
		{"id":"B","title":"Second","category":"AI","published_at":"2024-02-01T00:00:00Z"},
		{"id":"C","title":"Third","category":"Tools","published_at":"2024-01-01T00:00:00Z"},
		"bad"
	]`), 0o600))

	cmd := inspectCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--provider", "news", "--file", path, "--limit", "2"})
	require.NoError(t, cmd.Execute())

	var result domain.PageResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "gpt-4-turbo", result.Records[0].Slug)
	assert.Nil(t, result.Records[0].Raw)
}

func TestInspect_UnknownProvider(t *testing.T) {
	cmd := inspectCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--provider", "podcasts", "--file", "x.json"})
	require.ErrorIs(t, cmd.Execute(), domain.ErrUnknownProvider)
}

func TestBuildFetchers_SampleFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tools.json"), []byte(`[{"id":"rec1","fields":{"Name":"A"}}]`), 0o600))

	cfg := &config.Config{}
	cfg.Providers.SampleDir = dir

	fetchers := buildFetchers(cfg, &dependencies{}, logger.NewNop())
	require.Len(t, fetchers, len(domain.Providers()))

	for _, f := range fetchers {
		records, err := f.Fetch(context.Background())
		require.NoError(t, err)
		if f.Provider() == domain.ProviderTools {
			assert.Len(t, records, 1)
		} else {
			assert.Empty(t, records)
		}
	}
}
