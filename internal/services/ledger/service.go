// Package ledger keeps account holdings consistent with the append-only
// trade log.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService. The portfolio and trade log are
// whole shared documents: every mutation is a load-modify-save of both,
// so a single writer mutex serializes mutations even across accounts.
// Interleaved cycles would lose writes. The trade log is the durable
// record; holdings are a derived projection of it.
type Service struct {
	repo   interfaces.Repository
	logger *common.Logger

	writeMu sync.Mutex
}

// NewService creates a new ledger service
func NewService(repo interfaces.Repository, logger *common.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ApplyTrade validates the trade, updates the account's holding with the
// BUY/SELL formulas, and appends the trade to the log.
func (s *Service) ApplyTrade(ctx context.Context, trade models.Trade) (*models.Trade, error) {
	trade.Ticker = models.NormalizeTicker(trade.Ticker)
	if err := trade.Validate(); err != nil {
		return nil, err
	}
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	account := portfolio.FindAccount(trade.AccountID)
	if account == nil {
		return nil, fmt.Errorf("%w: account '%s'", models.ErrNotFound, trade.AccountID)
	}

	applyToAccount(account, trade)

	log, err := s.repo.Trades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade log: %w", err)
	}
	log.Trades = append(log.Trades, trade)

	if err := s.repo.SaveTrades(ctx, log); err != nil {
		return nil, fmt.Errorf("%w: saving trade log: %v", models.ErrPersistence, err)
	}
	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().
		Str("trade", trade.ID).
		Str("account", trade.AccountID).
		Str("ticker", trade.Ticker).
		Str("action", string(trade.Action)).
		Float64("shares", trade.Shares).
		Msg("Trade applied")

	return &trade, nil
}

// applyToAccount mutates the account's holding for a single trade.
// BUY recomputes the weighted-average cost; SELL reduces shares and
// removes the holding when they reach zero. Oversell clamps to removed.
func applyToAccount(account *models.Account, trade models.Trade) {
	holding := account.FindHolding(trade.Ticker)

	switch trade.Action {
	case models.TradeActionBuy:
		if holding == nil {
			account.Holdings = append(account.Holdings, models.Holding{
				Ticker:  trade.Ticker,
				Shares:  trade.Shares,
				AvgCost: trade.Price,
			})
			return
		}
		oldTotal := holding.Shares * holding.AvgCost
		newShares := holding.Shares + trade.Shares
		holding.AvgCost = (oldTotal + trade.Shares*trade.Price) / newShares
		holding.Shares = newShares

	case models.TradeActionSell:
		if holding == nil {
			return
		}
		holding.Shares -= trade.Shares
		if holding.Shares <= 0 {
			account.RemoveHolding(trade.Ticker)
		}
	}
}

// ReverseTrade deletes a trade from the log and rebuilds the affected
// (account, ticker) holding by replaying the remaining trades in date
// order. Replay, rather than in-place inversion, keeps the holding equal
// to the projection of the surviving log even when the reversed trade's
// sell had removed the holding.
func (s *Service) ReverseTrade(ctx context.Context, tradeID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log, err := s.repo.Trades(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trade log: %w", err)
	}
	target := log.FindTrade(tradeID)
	if target == nil {
		return fmt.Errorf("%w: trade '%s'", models.ErrNotFound, tradeID)
	}
	accountID, ticker := target.AccountID, target.Ticker
	log.RemoveTrade(tradeID)

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	account := portfolio.FindAccount(accountID)
	if account == nil {
		return fmt.Errorf("%w: account '%s'", models.ErrNotFound, accountID)
	}

	shares, avgCost := ReplayHolding(log.Trades, accountID, ticker)
	account.RemoveHolding(ticker)
	if shares > 0 {
		account.Holdings = append(account.Holdings, models.Holding{
			Ticker:  ticker,
			Shares:  shares,
			AvgCost: avgCost,
		})
	}

	if err := s.repo.SaveTrades(ctx, log); err != nil {
		return fmt.Errorf("%w: saving trade log: %v", models.ErrPersistence, err)
	}
	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().
		Str("trade", tradeID).
		Str("account", accountID).
		Str("ticker", ticker).
		Msg("Trade reversed")

	return nil
}

// ReplayHolding computes the (shares, avgCost) projection for one
// account+ticker by replaying its trades in date order with the same
// formulas ApplyTrade uses. A sell that clamps the position to zero also
// resets the average cost, so a later buy starts a fresh position.
func ReplayHolding(trades []models.Trade, accountID, ticker string) (shares, avgCost float64) {
	relevant := make([]models.Trade, 0)
	for _, t := range trades {
		if t.AccountID == accountID && t.Ticker == ticker {
			relevant = append(relevant, t)
		}
	}
	relevant = models.SortTradesByDate(relevant)

	for _, t := range relevant {
		switch t.Action {
		case models.TradeActionBuy:
			if shares <= 0 {
				shares = t.Shares
				avgCost = t.Price
				continue
			}
			oldTotal := shares * avgCost
			shares += t.Shares
			avgCost = (oldTotal + t.Shares*t.Price) / shares
		case models.TradeActionSell:
			shares -= t.Shares
			if shares <= 0 {
				shares = 0
				avgCost = 0
			}
		}
	}
	return shares, avgCost
}

// ListTrades returns the trade log sorted by date descending, with
// optional filters.
func (s *Service) ListTrades(ctx context.Context, filter interfaces.TradeFilter) ([]models.Trade, error) {
	log, err := s.repo.Trades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade log: %w", err)
	}

	out := make([]models.Trade, 0, len(log.Trades))
	for _, t := range log.Trades {
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		if filter.Action != "" && t.Action != filter.Action {
			continue
		}
		if filter.Ticker != "" && t.Ticker != models.NormalizeTicker(filter.Ticker) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// RealizedGains computes FIFO realized gains per ticker over the full log.
func (s *Service) RealizedGains(ctx context.Context) (map[string]models.RealizedGain, error) {
	log, err := s.repo.Trades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade log: %w", err)
	}
	return ComputeRealizedGains(log.Trades), nil
}

// CreateAccount adds an empty account to the portfolio document.
func (s *Service) CreateAccount(ctx context.Context, name string) (*models.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", models.ErrValidation)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	account := models.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Holdings: []models.Holding{},
	}
	portfolio.Accounts = append(portfolio.Accounts, account)

	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().Str("account", account.ID).Str("name", name).Msg("Account created")
	return &account, nil
}

// DeleteAccount removes an account and cascades its holdings.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	if !portfolio.RemoveAccount(accountID) {
		return fmt.Errorf("%w: account '%s'", models.ErrNotFound, accountID)
	}
	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().Str("account", accountID).Msg("Account deleted")
	return nil
}

// SetHolding upserts a holding directly, without a trade log entry. Used
// for positions imported from elsewhere rather than built through trades.
func (s *Service) SetHolding(ctx context.Context, accountID string, holding models.Holding) (*models.Holding, error) {
	holding.Ticker = models.NormalizeTicker(holding.Ticker)
	if holding.Ticker == "" {
		return nil, fmt.Errorf("%w: holding ticker is required", models.ErrValidation)
	}
	if holding.Shares <= 0 {
		return nil, fmt.Errorf("%w: holding shares must be positive, got %g", models.ErrValidation, holding.Shares)
	}
	if holding.AvgCost < 0 {
		return nil, fmt.Errorf("%w: holding avg cost must not be negative, got %g", models.ErrValidation, holding.AvgCost)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	account := portfolio.FindAccount(accountID)
	if account == nil {
		return nil, fmt.Errorf("%w: account '%s'", models.ErrNotFound, accountID)
	}

	if existing := account.FindHolding(holding.Ticker); existing != nil {
		*existing = holding
	} else {
		account.Holdings = append(account.Holdings, holding)
	}

	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().
		Str("account", accountID).
		Str("ticker", holding.Ticker).
		Float64("shares", holding.Shares).
		Msg("Holding set manually")

	return &holding, nil
}

// RemoveHolding deletes a holding directly, without a trade log entry.
func (s *Service) RemoveHolding(ctx context.Context, accountID, ticker string) error {
	ticker = models.NormalizeTicker(ticker)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	account := portfolio.FindAccount(accountID)
	if account == nil {
		return fmt.Errorf("%w: account '%s'", models.ErrNotFound, accountID)
	}
	if !account.RemoveHolding(ticker) {
		return fmt.Errorf("%w: holding '%s' in account '%s'", models.ErrNotFound, ticker, accountID)
	}
	if err := s.repo.SavePortfolio(ctx, portfolio); err != nil {
		return fmt.Errorf("%w: saving portfolio: %v", models.ErrPersistence, err)
	}

	s.logger.Info().Str("account", accountID).Str("ticker", ticker).Msg("Holding removed manually")
	return nil
}

// ListAccounts returns the accounts in the portfolio document.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	portfolio, err := s.repo.Portfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return portfolio.Accounts, nil
}
