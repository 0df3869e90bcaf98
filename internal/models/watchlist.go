package models

// Watchlist is the persisted watchlist document: tickers the user follows
// without necessarily holding them.
type Watchlist struct {
	Tickers []string `json:"tickers"`
}

// Contains reports whether the ticker is already on the list.
func (w *Watchlist) Contains(ticker string) bool {
	for _, t := range w.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// Add appends a ticker if absent. Returns false when already present.
func (w *Watchlist) Add(ticker string) bool {
	if w.Contains(ticker) {
		return false
	}
	w.Tickers = append(w.Tickers, ticker)
	return true
}

// Remove deletes a ticker. Returns false when absent.
func (w *Watchlist) Remove(ticker string) bool {
	for i, t := range w.Tickers {
		if t == ticker {
			w.Tickers = append(w.Tickers[:i], w.Tickers[i+1:]...)
			return true
		}
	}
	return false
}
