package models

import "time"

// Quote is a current price for a ticker.
type Quote struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// Bar is one OHLCV sample of a price history series.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceHistory is an ordered series of bars for a ticker. The provider may
// return a partial series when only some samples are available.
type PriceHistory struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// QuoteSummary is the watchlist quick view: current price plus trailing
// change percentages derived from daily history.
type QuoteSummary struct {
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Change1D float64 `json:"change_1d_pct"`
	Change1W float64 `json:"change_1w_pct"`
	Change1M float64 `json:"change_1m_pct"`
	Change6M float64 `json:"change_6m_pct"`
}
