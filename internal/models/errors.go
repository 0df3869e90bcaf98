package models

import "errors"

// Sentinel errors for the service layer. Wrap with fmt.Errorf("%w: ...")
// and test with errors.Is.
var (
	// ErrValidation rejects malformed input before any state changes.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound reports a missing entity (account, trade, alert, target).
	ErrNotFound = errors.New("not found")

	// ErrNoData reports that the price provider has nothing for a ticker.
	// Callers degrade (skip the ticker, fall back to snapshots) rather
	// than abort.
	ErrNoData = errors.New("no data")

	// ErrPersistence reports a storage failure. Not retried automatically.
	ErrPersistence = errors.New("persistence failed")
)
