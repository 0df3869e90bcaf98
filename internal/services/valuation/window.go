package valuation

import (
	"fmt"
	"time"

	"github.com/foliohq/folio/internal/models"
)

// bucketMinuteLayout keys intraday buckets; bucketDateLayout keys daily
// buckets. Bucketing deduplicates provider samples before summing across
// tickers so no bucket is counted twice.
const (
	bucketMinuteLayout = "2006-01-02 15:04"
	bucketDateLayout   = "2006-01-02"
)

// windowSpec carries the provider query and bucketing rules for one window.
type windowSpec struct {
	Range        string // provider range string
	Interval     string // provider bar interval
	BucketLayout string
	LookbackDays int // snapshot fallback cutoff; 0 means unbounded
}

var windowSpecs = map[models.Window]windowSpec{
	models.Window1D:  {Range: "1d", Interval: "5m", BucketLayout: bucketMinuteLayout, LookbackDays: 1},
	models.Window1W:  {Range: "7d", Interval: "1h", BucketLayout: bucketMinuteLayout, LookbackDays: 7},
	models.Window1M:  {Range: "1mo", Interval: "1d", BucketLayout: bucketDateLayout, LookbackDays: 30},
	models.Window3M:  {Range: "3mo", Interval: "1d", BucketLayout: bucketDateLayout, LookbackDays: 90},
	models.Window6M:  {Range: "6mo", Interval: "1d", BucketLayout: bucketDateLayout, LookbackDays: 180},
	models.Window1Y:  {Range: "1y", Interval: "1d", BucketLayout: bucketDateLayout, LookbackDays: 365},
	models.WindowAll: {Range: "max", Interval: "1d", BucketLayout: bucketDateLayout, LookbackDays: 0},
}

// specFor resolves a window, defaulting unknown values to 1M.
func specFor(w models.Window) (models.Window, windowSpec) {
	if spec, ok := windowSpecs[w]; ok {
		return w, spec
	}
	return models.Window1M, windowSpecs[models.Window1M]
}

// cutoff returns the earliest time the window covers, relative to now.
// The zero time means no cutoff.
func (s windowSpec) cutoff(now time.Time) time.Time {
	if s.LookbackDays == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -s.LookbackDays)
}

// bucketKey formats a bar timestamp into its dedupe key.
func (s windowSpec) bucketKey(t time.Time) string {
	return t.UTC().Format(s.BucketLayout)
}

// bucketTime parses a dedupe key back into a timestamp.
func (s windowSpec) bucketTime(key string) (time.Time, error) {
	t, err := time.ParseInLocation(s.BucketLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad bucket key %q: %w", key, err)
	}
	return t, nil
}
