package models

// PositionSummary is one ticker's aggregate position valued at the current
// quote. PriceKnown is false when the provider had no data; the position
// then contributes zero value and is excluded from weights.
type PositionSummary struct {
	Ticker     string  `json:"ticker"`
	Shares     float64 `json:"shares"`
	AvgCost    float64 `json:"avg_cost"`
	Price      float64 `json:"price"`
	PriceKnown bool    `json:"price_known"`
	Value      float64 `json:"value"`
	Cost       float64 `json:"cost"`
	Gain       float64 `json:"gain"`
	GainPct    float64 `json:"gain_pct"`
	WeightPct  float64 `json:"weight_pct"`
}

// PortfolioSummary aggregates current value, cost basis, and unrealized
// gain across the accounts in scope. Computed on demand, never persisted.
type PortfolioSummary struct {
	TotalValue float64           `json:"total_value"`
	TotalCost  float64           `json:"total_cost"`
	Gain       float64           `json:"gain"`
	GainPct    float64           `json:"gain_pct"`
	Positions  []PositionSummary `json:"positions"`
}
