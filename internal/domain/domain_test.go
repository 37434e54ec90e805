package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    domain.Provider
		wantErr bool
	}{
		{in: "blog", want: domain.ProviderBlog},
		{in: " NEWS ", want: domain.ProviderNews},
		{in: "Tools", want: domain.ProviderTools},
		{in: "podcasts", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseProvider(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMalformedRecordError_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("normalize: %w", &domain.MalformedRecordError{Provider: domain.ProviderTools, Reason: "no identity"})

	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	var malformed *domain.MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, domain.ProviderTools, malformed.Provider)
	assert.Equal(t, "normalize: malformed tools record: no identity", err.Error())
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	t.Parallel()

	featured := false
	assert.True(t, domain.FilterSpec{}.IsEmpty())
	assert.True(t, domain.FilterSpec{Category: "  ", Search: "\t"}.IsEmpty())
	assert.False(t, domain.FilterSpec{Tag: "ai"}.IsEmpty())
	assert.False(t, domain.FilterSpec{Featured: &featured}.IsEmpty())
}

func TestRecord_AuthorName(t *testing.T) {
	t.Parallel()

	r := domain.Record{}
	assert.Empty(t, r.AuthorName())

	r.Author = &domain.Author{Name: "Jane"}
	assert.Equal(t, "Jane", r.AuthorName())
	assert.Nil(t, domain.Record{Raw: []byte(`{}`)}.WithoutRaw().Raw)
}
