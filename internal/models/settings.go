package models

// DefaultRebalanceThreshold is the allowed percentage-point deviation
// before a rebalancing suggestion is produced.
const DefaultRebalanceThreshold = 5.0

// Settings is the persisted settings document. Target percentages are not
// required to sum to 100; the engine does not enforce it.
type Settings struct {
	TargetAllocations  map[string]float64 `json:"target_allocations"` // ticker -> target percent
	RebalanceThreshold float64            `json:"rebalance_threshold"`
}

// ApplyDefaults fills missing fields once, at the load boundary.
func (s *Settings) ApplyDefaults() {
	if s.TargetAllocations == nil {
		s.TargetAllocations = make(map[string]float64)
	}
	if s.RebalanceThreshold <= 0 {
		s.RebalanceThreshold = DefaultRebalanceThreshold
	}
}

// RebalanceAction is the direction of a rebalancing suggestion.
type RebalanceAction string

const (
	RebalanceBuy  RebalanceAction = "BUY"
	RebalanceSell RebalanceAction = "SELL"
)

// RebalanceSuggestion proposes a dollar-denominated adjustment for one
// ticker whose actual allocation deviates beyond the threshold.
type RebalanceSuggestion struct {
	Ticker    string          `json:"ticker"`
	Action    RebalanceAction `json:"action"`
	Amount    float64         `json:"amount"` // dollars to buy or sell
	ActualPct float64         `json:"actual_pct"`
	TargetPct float64         `json:"target_pct"`
	DiffPct   float64         `json:"diff_pct"` // actual - target
}

// RebalanceAdvice is the full advisor result. Applicable is false when
// there is nothing to advise on (no value or no targets configured).
type RebalanceAdvice struct {
	Applicable  bool                  `json:"applicable"`
	Reason      string                `json:"reason,omitempty"` // set when not applicable
	TotalValue  float64               `json:"total_value"`
	Threshold   float64               `json:"threshold"`
	Suggestions []RebalanceSuggestion `json:"suggestions"`
}
