package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/foliohq/folio/internal/models"
)

// lot is an open purchase consumed by later sells, first-in first-out.
type lot struct {
	remaining decimal.Decimal
	price     decimal.Decimal
}

// ComputeRealizedGains matches each sell against the oldest open buy lots
// for the same ticker, merging trades across accounts. Cost basis and
// proceeds accumulate in decimal arithmetic so repeated partial fills do
// not drift. Only tickers with at least one sell appear in the result.
// A sell exceeding the open lots contributes its full proceeds with cost
// basis only for the shares that had matching lots.
func ComputeRealizedGains(trades []models.Trade) map[string]models.RealizedGain {
	sorted := models.SortTradesByDate(trades)

	lots := make(map[string][]lot)
	gains := make(map[string]models.RealizedGain)

	for _, t := range sorted {
		shares := decimal.NewFromFloat(t.Shares)
		price := decimal.NewFromFloat(t.Price)

		switch t.Action {
		case models.TradeActionBuy:
			lots[t.Ticker] = append(lots[t.Ticker], lot{remaining: shares, price: price})

		case models.TradeActionSell:
			g, ok := gains[t.Ticker]
			if !ok {
				g = models.RealizedGain{Ticker: t.Ticker}
			}

			g.SharesSold += t.Shares
			proceeds := shares.Mul(price)
			g.Proceeds += mustFloat(proceeds)

			cost := decimal.Zero
			toMatch := shares
			queue := lots[t.Ticker]
			for len(queue) > 0 && toMatch.IsPositive() {
				head := &queue[0]
				used := decimal.Min(head.remaining, toMatch)
				cost = cost.Add(used.Mul(head.price))
				head.remaining = head.remaining.Sub(used)
				toMatch = toMatch.Sub(used)
				if head.remaining.IsZero() || head.remaining.IsNegative() {
					queue = queue[1:]
				}
			}
			lots[t.Ticker] = queue

			g.CostBasis += mustFloat(cost)
			g.Gain = g.Proceeds - g.CostBasis
			gains[t.Ticker] = g
		}
	}

	return gains
}

// RealizedGainsSorted flattens a gains map into a slice sorted by ticker.
func RealizedGainsSorted(gains map[string]models.RealizedGain) []models.RealizedGain {
	out := make([]models.RealizedGain, 0, len(gains))
	for _, g := range gains {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
