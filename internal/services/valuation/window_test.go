package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/models"
)

func TestSpecForKnownWindows(t *testing.T) {
	cases := []struct {
		window   models.Window
		rng      string
		interval string
		days     int
	}{
		{models.Window1D, "1d", "5m", 1},
		{models.Window1W, "7d", "1h", 7},
		{models.Window1M, "1mo", "1d", 30},
		{models.Window3M, "3mo", "1d", 90},
		{models.Window6M, "6mo", "1d", 180},
		{models.Window1Y, "1y", "1d", 365},
		{models.WindowAll, "max", "1d", 0},
	}
	for _, tc := range cases {
		window, spec := specFor(tc.window)
		assert.Equal(t, tc.window, window)
		assert.Equal(t, tc.rng, spec.Range)
		assert.Equal(t, tc.interval, spec.Interval)
		assert.Equal(t, tc.days, spec.LookbackDays)
	}
}

func TestSpecForUnknownWindowDefaults(t *testing.T) {
	window, spec := specFor(models.Window("2W"))
	assert.Equal(t, models.Window1M, window)
	assert.Equal(t, "1mo", spec.Range)
}

func TestBucketGranularity(t *testing.T) {
	sample := time.Date(2026, 3, 2, 14, 35, 42, 0, time.UTC)

	_, intraday := specFor(models.Window1D)
	assert.Equal(t, "2026-03-02 14:35", intraday.bucketKey(sample))

	_, daily := specFor(models.Window1Y)
	assert.Equal(t, "2026-03-02", daily.bucketKey(sample))
}

func TestBucketRoundTrip(t *testing.T) {
	_, spec := specFor(models.Window1W)
	sample := time.Date(2026, 3, 2, 14, 35, 0, 0, time.UTC)

	parsed, err := spec.bucketTime(spec.bucketKey(sample))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(sample))
}

func TestCutoff(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, month := specFor(models.Window1M)
	assert.Equal(t, now.AddDate(0, 0, -30), month.cutoff(now))

	_, all := specFor(models.WindowAll)
	assert.True(t, all.cutoff(now).IsZero())
}
