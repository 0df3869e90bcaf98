// Package docstore implements the Repository interface using BadgerHold.
// Each ledger document (portfolio, trades, history, alerts, settings,
// watchlist) is stored as one named record with a JSON payload.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

// Document names, one record per name.
const (
	docPortfolio = "portfolio"
	docTrades    = "trades"
	docHistory   = "history"
	docAlerts    = "alerts"
	docSettings  = "settings"
	docWatchlist = "watchlist"
)

// document is the stored record shape.
type document struct {
	Name    string `badgerhold:"key"`
	Payload []byte
	Version int
	Updated time.Time
}

var _ interfaces.Repository = (*Store)(nil)

// Store implements interfaces.Repository using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the document store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create docstore path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open docstore at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Document store opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}

// load unmarshals a named document into out. Returns false when the
// document has never been saved; the caller then fills defaults.
func (s *Store) load(name string, out any) (bool, error) {
	var doc document
	if err := s.db.Get(name, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("%w: loading document '%s': %v", models.ErrPersistence, name, err)
	}
	if err := json.Unmarshal(doc.Payload, out); err != nil {
		return false, fmt.Errorf("%w: corrupt document '%s': %v", models.ErrPersistence, name, err)
	}
	return true, nil
}

// save marshals and upserts a named document, bumping its version.
func (s *Store) save(name string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encoding document '%s': %v", models.ErrPersistence, name, err)
	}

	doc := document{Name: name, Payload: payload, Version: 1, Updated: time.Now()}
	var existing document
	if err := s.db.Get(name, &existing); err == nil {
		doc.Version = existing.Version + 1
	}

	if err := s.db.Upsert(name, doc); err != nil {
		return fmt.Errorf("%w: saving document '%s': %v", models.ErrPersistence, name, err)
	}
	return nil
}

func (s *Store) Portfolio(_ context.Context) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	found, err := s.load(docPortfolio, p)
	if err != nil {
		return nil, err
	}
	if !found || p.Accounts == nil {
		p.Accounts = []models.Account{}
	}
	return p, nil
}

func (s *Store) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	return s.save(docPortfolio, p)
}

func (s *Store) Trades(_ context.Context) (*models.TradeLog, error) {
	l := &models.TradeLog{}
	found, err := s.load(docTrades, l)
	if err != nil {
		return nil, err
	}
	if !found || l.Trades == nil {
		l.Trades = []models.Trade{}
	}
	return l, nil
}

func (s *Store) SaveTrades(_ context.Context, l *models.TradeLog) error {
	return s.save(docTrades, l)
}

func (s *Store) History(_ context.Context) (*models.History, error) {
	h := &models.History{}
	found, err := s.load(docHistory, h)
	if err != nil {
		return nil, err
	}
	if !found || h.Snapshots == nil {
		h.Snapshots = []models.Snapshot{}
	}
	return h, nil
}

func (s *Store) SaveHistory(_ context.Context, h *models.History) error {
	return s.save(docHistory, h)
}

func (s *Store) Alerts(_ context.Context) (*models.Alerts, error) {
	a := &models.Alerts{}
	found, err := s.load(docAlerts, a)
	if err != nil {
		return nil, err
	}
	if !found || a.Alerts == nil {
		a.Alerts = []models.Alert{}
	}
	return a, nil
}

func (s *Store) SaveAlerts(_ context.Context, a *models.Alerts) error {
	return s.save(docAlerts, a)
}

func (s *Store) Settings(_ context.Context) (*models.Settings, error) {
	settings := &models.Settings{}
	if _, err := s.load(docSettings, settings); err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings *models.Settings) error {
	return s.save(docSettings, settings)
}

func (s *Store) Watchlist(_ context.Context) (*models.Watchlist, error) {
	w := &models.Watchlist{}
	found, err := s.load(docWatchlist, w)
	if err != nil {
		return nil, err
	}
	if !found || w.Tickers == nil {
		w.Tickers = []string{}
	}
	return w, nil
}

func (s *Store) SaveWatchlist(_ context.Context, w *models.Watchlist) error {
	return s.save(docWatchlist, w)
}
