package models

import (
	"fmt"
	"time"
)

// AlertCondition is the trigger direction of a price alert.
type AlertCondition string

const (
	AlertAbove AlertCondition = "ABOVE"
	AlertBelow AlertCondition = "BELOW"
)

// Alert is a standing price alert. Lifecycle: created active, transitions
// to triggered exactly once when a monitored quote satisfies the
// condition, deleted by user action in either state.
type Alert struct {
	ID            string         `json:"id"`
	Ticker        string         `json:"ticker"`
	Condition     AlertCondition `json:"condition"`
	TargetPrice   float64        `json:"target_price"`
	CreatedDate   time.Time      `json:"created_date"`
	Triggered     bool           `json:"triggered"`
	TriggeredDate *time.Time     `json:"triggered_date,omitempty"`
}

// Validate checks the fields required to create an alert.
func (a *Alert) Validate() error {
	if a.Ticker == "" {
		return fmt.Errorf("%w: alert ticker is required", ErrValidation)
	}
	if a.Condition != AlertAbove && a.Condition != AlertBelow {
		return fmt.Errorf("%w: alert condition must be ABOVE or BELOW, got %q", ErrValidation, a.Condition)
	}
	if a.TargetPrice <= 0 {
		return fmt.Errorf("%w: alert target price must be positive, got %g", ErrValidation, a.TargetPrice)
	}
	return nil
}

// Satisfied reports whether the given price meets the alert condition.
func (a *Alert) Satisfied(price float64) bool {
	switch a.Condition {
	case AlertAbove:
		return price >= a.TargetPrice
	case AlertBelow:
		return price <= a.TargetPrice
	}
	return false
}

// Alerts is the persisted alert document.
type Alerts struct {
	Alerts []Alert `json:"alerts"`
}

// FindAlert returns the alert with the given id, or nil.
func (d *Alerts) FindAlert(id string) *Alert {
	for i := range d.Alerts {
		if d.Alerts[i].ID == id {
			return &d.Alerts[i]
		}
	}
	return nil
}

// RemoveAlert deletes the alert with the given id. Returns false if absent.
func (d *Alerts) RemoveAlert(id string) bool {
	for i := range d.Alerts {
		if d.Alerts[i].ID == id {
			d.Alerts = append(d.Alerts[:i], d.Alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the alerts that have not triggered yet.
func (d *Alerts) Active() []Alert {
	out := make([]Alert, 0, len(d.Alerts))
	for _, a := range d.Alerts {
		if !a.Triggered {
			out = append(out, a)
		}
	}
	return out
}

// TriggeredAlerts returns the alerts that have triggered.
func (d *Alerts) TriggeredAlerts() []Alert {
	out := make([]Alert, 0, len(d.Alerts))
	for _, a := range d.Alerts {
		if a.Triggered {
			out = append(out, a)
		}
	}
	return out
}
