package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRequest("news")
	m.ObserveRequest("news")
	m.ObservePage("news", 3, 1)
	m.ObserveFetch("news", 20*time.Millisecond, nil)
	m.ObserveFetch("news", time.Millisecond, errors.New("down"))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				values[mf.GetName()] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.InDelta(t, 2, values["aggregator_requests_total"], 0)
	assert.InDelta(t, 3, values["aggregator_records_returned_total"], 0)
	assert.InDelta(t, 1, values["aggregator_records_skipped_total"], 0)
	assert.InDelta(t, 1, values["aggregator_upstream_errors_total"], 0)
	assert.InDelta(t, 2, values["aggregator_upstream_fetch_duration_seconds"], 0)

	count, err := testutil.GatherAndCount(reg, "aggregator_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
