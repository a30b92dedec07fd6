package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func TestParquetExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bars.parquet")
	in := map[string][]model.OHLCV{
		"TCS.NS":  barsFor(2, 3, 4),
		"INFY.NS": barsFor(2, 3),
	}

	e := NewParquetExporter()
	require.NoError(t, e.Export(context.Background(), in, path))

	out, err := e.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, in["TCS.NS"], out["TCS.NS"])
	assert.Equal(t, in["INFY.NS"], out["INFY.NS"])
}
