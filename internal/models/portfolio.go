// Package models defines data structures for Folio
package models

import "strings"

// Portfolio is the persisted portfolio document: the set of accounts and
// their holdings. Holdings are a derived projection of the trade log and
// must always be reproducible by replaying trades in date order.
type Portfolio struct {
	Accounts []Account `json:"accounts"`
}

// Account groups holdings under a named account (e.g. "Brokerage", "IRA").
type Account struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Holdings []Holding `json:"holdings"`
}

// Holding is a single position within an account. A ticker appears at most
// once per account; zero shares means the holding has been removed.
type Holding struct {
	Ticker  string  `json:"ticker"`
	Shares  float64 `json:"shares"`
	AvgCost float64 `json:"avg_cost"` // weighted average, recomputed on every BUY
}

// FindAccount returns the account with the given id, or nil.
func (p *Portfolio) FindAccount(id string) *Account {
	for i := range p.Accounts {
		if p.Accounts[i].ID == id {
			return &p.Accounts[i]
		}
	}
	return nil
}

// RemoveAccount deletes the account with the given id, cascading its
// holdings. Returns false if no such account exists.
func (p *Portfolio) RemoveAccount(id string) bool {
	for i := range p.Accounts {
		if p.Accounts[i].ID == id {
			p.Accounts = append(p.Accounts[:i], p.Accounts[i+1:]...)
			return true
		}
	}
	return false
}

// FindHolding returns the holding for ticker within the account, or nil.
func (a *Account) FindHolding(ticker string) *Holding {
	for i := range a.Holdings {
		if a.Holdings[i].Ticker == ticker {
			return &a.Holdings[i]
		}
	}
	return nil
}

// RemoveHolding deletes the holding for ticker. Returns false if absent.
func (a *Account) RemoveHolding(ticker string) bool {
	for i := range a.Holdings {
		if a.Holdings[i].Ticker == ticker {
			a.Holdings = append(a.Holdings[:i], a.Holdings[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeTicker canonicalizes user-supplied tickers (upper-case, trimmed).
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// AggregatedHolding is a per-ticker position summed across accounts.
type AggregatedHolding struct {
	Ticker string
	Shares float64
	Cost   float64 // sum of shares*avg_cost across accounts
}

// AggregateHoldings merges holdings across the given accounts per ticker.
// An empty account filter means all accounts.
func AggregateHoldings(accounts []Account, accountFilter []string) map[string]*AggregatedHolding {
	inScope := func(id string) bool {
		if len(accountFilter) == 0 {
			return true
		}
		for _, f := range accountFilter {
			if f == id {
				return true
			}
		}
		return false
	}

	out := make(map[string]*AggregatedHolding)
	for _, acc := range accounts {
		if !inScope(acc.ID) {
			continue
		}
		for _, h := range acc.Holdings {
			agg := out[h.Ticker]
			if agg == nil {
				agg = &AggregatedHolding{Ticker: h.Ticker}
				out[h.Ticker] = agg
			}
			agg.Shares += h.Shares
			agg.Cost += h.Shares * h.AvgCost
		}
	}
	return out
}
