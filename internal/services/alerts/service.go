// Package alerts manages standing price alerts and their evaluation
// against live quotes.
package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
)

var _ interfaces.AlertService = (*Service)(nil)

// Service implements AlertService. The alert document is a single
// shared record, so every mutation runs under one mutex: an alert can
// never trigger twice from overlapping evaluations, and a create or
// delete never interleaves with an evaluation's load-modify-save.
type Service struct {
	repo   interfaces.Repository
	prices interfaces.PriceProvider
	logger *common.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new alert service
func NewService(repo interfaces.Repository, prices interfaces.PriceProvider, logger *common.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, prices: prices, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAlert validates and stores a new active alert.
func (s *Service) CreateAlert(ctx context.Context, alert models.Alert) (*models.Alert, error) {
	alert.Ticker = models.NormalizeTicker(alert.Ticker)
	if err := alert.Validate(); err != nil {
		return nil, err
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.Triggered = false
	alert.TriggeredDate = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	doc.Alerts = append(doc.Alerts, alert)
	if err := s.repo.SaveAlerts(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: saving alerts: %v", models.ErrPersistence, err)
	}

	s.logger.Info().
		Str("alert", alert.ID).
		Str("ticker", alert.Ticker).
		Str("condition", string(alert.Condition)).
		Float64("target", alert.TargetPrice).
		Msg("Alert created")

	return &alert, nil
}

// DeleteAlert removes an alert in either lifecycle state.
func (s *Service) DeleteAlert(ctx context.Context, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Alerts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load alerts: %w", err)
	}
	if !doc.RemoveAlert(alertID) {
		return fmt.Errorf("%w: alert '%s'", models.ErrNotFound, alertID)
	}
	if err := s.repo.SaveAlerts(ctx, doc); err != nil {
		return fmt.Errorf("%w: saving alerts: %v", models.ErrPersistence, err)
	}
	return nil
}

// ListAlerts returns the alert document.
func (s *Service) ListAlerts(ctx context.Context) (*models.Alerts, error) {
	doc, err := s.repo.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return doc, nil
}
