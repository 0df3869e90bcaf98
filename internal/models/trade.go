package models

import (
	"fmt"
	"sort"
	"time"
)

// TradeAction is the direction of a trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// Trade is a single entry in the append-only trade log. Immutable once
// created except for deletion via trade reversal.
type Trade struct {
	ID        string      `json:"id"`
	Date      time.Time   `json:"date"`
	AccountID string      `json:"account_id"`
	Ticker    string      `json:"ticker"`
	Action    TradeAction `json:"action"`
	Shares    float64     `json:"shares"`
	Price     float64     `json:"price"`
	Fees      float64     `json:"fees"`
	Notes     string      `json:"notes,omitempty"`
}

// Validate checks the fields required before a trade may mutate holdings.
func (t *Trade) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("%w: trade account_id is required", ErrValidation)
	}
	if t.Ticker == "" {
		return fmt.Errorf("%w: trade ticker is required", ErrValidation)
	}
	if t.Action != TradeActionBuy && t.Action != TradeActionSell {
		return fmt.Errorf("%w: trade action must be BUY or SELL, got %q", ErrValidation, t.Action)
	}
	if t.Shares <= 0 {
		return fmt.Errorf("%w: trade shares must be positive, got %g", ErrValidation, t.Shares)
	}
	if t.Price < 0 {
		return fmt.Errorf("%w: trade price must not be negative, got %g", ErrValidation, t.Price)
	}
	if t.Fees < 0 {
		return fmt.Errorf("%w: trade fees must not be negative, got %g", ErrValidation, t.Fees)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: trade date is required", ErrValidation)
	}
	return nil
}

// TradeLog is the persisted trade document. Log order is insertion order;
// consumers sort by date explicitly rather than assuming the log is
// chronological.
type TradeLog struct {
	Trades []Trade `json:"trades"`
}

// FindTrade returns the trade with the given id, or nil.
func (l *TradeLog) FindTrade(id string) *Trade {
	for i := range l.Trades {
		if l.Trades[i].ID == id {
			return &l.Trades[i]
		}
	}
	return nil
}

// RemoveTrade deletes the trade with the given id. Returns false if absent.
func (l *TradeLog) RemoveTrade(id string) bool {
	for i := range l.Trades {
		if l.Trades[i].ID == id {
			l.Trades = append(l.Trades[:i], l.Trades[i+1:]...)
			return true
		}
	}
	return false
}

// SortTradesByDate returns a date-ascending copy of trades. The sort is
// stable so same-date trades keep their log order.
func SortTradesByDate(trades []Trade) []Trade {
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// RealizedGain is the FIFO-matched outcome of all sells for one ticker.
// Derived from the trade log on demand, never persisted.
type RealizedGain struct {
	Ticker     string  `json:"ticker"`
	SharesSold float64 `json:"shares_sold"`
	CostBasis  float64 `json:"cost_basis"`
	Proceeds   float64 `json:"proceeds"`
	Gain       float64 `json:"gain"`
}
