package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryUpsertReplacesSameDate(t *testing.T) {
	h := &History{}
	h.Upsert(Snapshot{Date: "2026-03-01", TotalValue: 1000})
	h.Upsert(Snapshot{Date: "2026-03-01", TotalValue: 1100})

	require.Len(t, h.Snapshots, 1)
	assert.Equal(t, 1100.0, h.Snapshots[0].TotalValue)
}

func TestHistoryUpsertKeepsDateOrder(t *testing.T) {
	h := &History{}
	h.Upsert(Snapshot{Date: "2026-03-02", TotalValue: 2})
	h.Upsert(Snapshot{Date: "2026-02-27", TotalValue: 1})
	h.Upsert(Snapshot{Date: "2026-03-05", TotalValue: 3})

	require.Len(t, h.Snapshots, 3)
	assert.Equal(t, "2026-02-27", h.Snapshots[0].Date)
	assert.Equal(t, "2026-03-05", h.Snapshots[2].Date)
}

func TestHistoryUpsertTrimsOldest(t *testing.T) {
	h := &History{}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= MaxSnapshots; i++ {
		h.Upsert(Snapshot{Date: start.AddDate(0, 0, i).Format(SnapshotDateLayout)})
	}

	require.Len(t, h.Snapshots, MaxSnapshots)
	// The oldest entry fell off.
	assert.Equal(t, start.AddDate(0, 0, 1).Format(SnapshotDateLayout), h.Snapshots[0].Date)
}

func TestHistorySince(t *testing.T) {
	h := &History{}
	h.Upsert(Snapshot{Date: "2026-01-01"})
	h.Upsert(Snapshot{Date: "2026-02-01"})
	h.Upsert(Snapshot{Date: "2026-03-01"})

	since := h.Since(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, since, 2)
	assert.Equal(t, "2026-02-01", since[0].Date)
}

func ExampleHistory_Upsert() {
	h := &History{}
	h.Upsert(Snapshot{Date: "2026-03-01", TotalValue: 1000})
	h.Upsert(Snapshot{Date: "2026-03-01", TotalValue: 1250})
	fmt.Println(len(h.Snapshots), h.Snapshots[0].TotalValue)
	// Output: 1 1250
}
