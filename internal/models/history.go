package models

import (
	"sort"
	"time"
)

// SnapshotDateLayout is the calendar-date key for snapshots.
const SnapshotDateLayout = "2006-01-02"

// MaxSnapshots caps the retained snapshot history.
const MaxSnapshots = 365

// AccountSnapshot is the point-in-time value of one account.
type AccountSnapshot struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Cost  float64 `json:"cost"`
}

// Snapshot is a persisted point-in-time total-value record, at most one per
// calendar day. Used as the valuation fallback when live prices are
// unavailable.
type Snapshot struct {
	Date       string                     `json:"date"` // SnapshotDateLayout
	Accounts   map[string]AccountSnapshot `json:"accounts"`
	TotalValue float64                    `json:"total_value"`
	TotalCost  float64                    `json:"total_cost"`
}

// History is the persisted snapshot document.
type History struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// Upsert replaces any snapshot with the same date, appends otherwise, then
// re-sorts by date and trims to the most recent MaxSnapshots entries.
func (h *History) Upsert(s Snapshot) {
	for i := range h.Snapshots {
		if h.Snapshots[i].Date == s.Date {
			h.Snapshots = append(h.Snapshots[:i], h.Snapshots[i+1:]...)
			break
		}
	}
	h.Snapshots = append(h.Snapshots, s)
	sort.Slice(h.Snapshots, func(i, j int) bool {
		return h.Snapshots[i].Date < h.Snapshots[j].Date
	})
	if len(h.Snapshots) > MaxSnapshots {
		h.Snapshots = h.Snapshots[len(h.Snapshots)-MaxSnapshots:]
	}
}

// Since returns the snapshots on or after the cutoff date, in date order.
func (h *History) Since(cutoff time.Time) []Snapshot {
	key := cutoff.Format(SnapshotDateLayout)
	out := make([]Snapshot, 0, len(h.Snapshots))
	for _, s := range h.Snapshots {
		if s.Date >= key {
			out = append(out, s)
		}
	}
	return out
}

// Window identifies a valuation time window.
type Window string

const (
	Window1D  Window = "1D"
	Window1W  Window = "1W"
	Window1M  Window = "1M"
	Window3M  Window = "3M"
	Window6M  Window = "6M"
	Window1Y  Window = "1Y"
	WindowAll Window = "All"
)

// SeriesSource records where a value series came from.
type SeriesSource string

const (
	SeriesSourceLive      SeriesSource = "live"      // provider price history
	SeriesSourceSnapshots SeriesSource = "snapshots" // persisted history fallback
	SeriesSourceNone      SeriesSource = "none"      // no holdings in scope
)

// ValuePoint is one sample of the portfolio value series.
type ValuePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ValueSeries is a reconstructed portfolio value curve for a window.
// Points are ordered by time with no duplicate bucket keys. RangeMin and
// RangeMax carry the padded display range (min-10%, max+10%, floored at 0).
type ValueSeries struct {
	Window   Window       `json:"window"`
	Source   SeriesSource `json:"source"`
	Points   []ValuePoint `json:"points"`
	RangeMin float64      `json:"range_min"`
	RangeMax float64      `json:"range_max"`
}

// Empty reports whether the series carries no samples.
func (s *ValueSeries) Empty() bool {
	return len(s.Points) == 0
}
