package profiling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/profiling"
)

func TestStartPprof_DisabledByDefault(t *testing.T) {
	t.Setenv("ENABLE_PROFILING", "")

	assert.Nil(t, profiling.StartPprof(logger.NewNop()))
}

func TestStartPyroscope_Disabled(t *testing.T) {
	t.Setenv("ENABLE_CONTINUOUS_PROFILING", "false")

	p, err := profiling.StartPyroscope("content-aggregator", "test", logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Stop())
}
