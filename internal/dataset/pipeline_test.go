package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"houseboard/internal/apperr"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	return s.data, s.err
}

func TestPipelineLoad(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Latitude", "Longitude"},
		{"A", 40.7, -74.0},
	})
	p := NewPipeline(stubFetcher{data: data}, "data/listings.xlsx", zaptest.NewLogger(t))

	ds, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}

func TestPipelineFailures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher stubFetcher
		kind    apperr.Kind
	}{
		{"transport", stubFetcher{err: apperr.Transport("data/listings.xlsx", 404, errors.New("file not found"))}, apperr.KindTransport},
		{"plain transport", stubFetcher{err: errors.New("connection refused")}, apperr.KindTransport},
		{"decode", stubFetcher{data: []byte("<html>not xlsx</html>")}, apperr.KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.fetcher, "data/listings.xlsx", zaptest.NewLogger(t))
			_, err := p.Load(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Contains(t, err.Error(), "data/listings.xlsx")
		})
	}

	t.Run("zero rows", func(t *testing.T) {
		data := buildWorkbook(t, [][]interface{}{{"Name", "Price"}})
		p := NewPipeline(stubFetcher{data: data}, "data/listings.xlsx", zaptest.NewLogger(t))
		_, err := p.Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperr.KindShape, apperr.KindOf(err))
	})
}
