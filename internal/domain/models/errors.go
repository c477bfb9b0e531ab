package models

import (
	"fmt"
	"time"
)

// NotFoundError reports an unknown symbol or user.
type NotFoundError struct {
	Kind string // "symbol", "user", "quote"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// StaleQuoteError reports a quote older than the configured freshness bound.
type StaleQuoteError struct {
	Symbol string
	AsOf   time.Time
	Bound  time.Duration
}

func (e *StaleQuoteError) Error() string {
	return fmt.Sprintf("quote for %s is stale: as of %s, bound %s", e.Symbol, e.AsOf.Format(time.RFC3339), e.Bound)
}

// InsufficientPositionError reports a SELL exceeding the held quantity.
type InsufficientPositionError struct {
	UserID    string
	Symbol    string
	Requested int64
	Held      int64
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position: user %s holds %d %s, requested %d", e.UserID, e.Held, e.Symbol, e.Requested)
}

// InsufficientSignalError reports that no fresh sentiment sample survived
// the staleness filter.
type InsufficientSignalError struct {
	Symbol string
}

func (e *InsufficientSignalError) Error() string {
	return fmt.Sprintf("no fresh sentiment signal for %s", e.Symbol)
}

// ValuationMismatchError reports a holding valued against a quote for a
// different symbol. This is a wiring bug, not a user error.
type ValuationMismatchError struct {
	HoldingSymbol string
	QuoteSymbol   string
}

func (e *ValuationMismatchError) Error() string {
	return fmt.Sprintf("valuation mismatch: holding %s vs quote %s", e.HoldingSymbol, e.QuoteSymbol)
}

// ConcurrentModificationError reports a lost compare-and-swap race that the
// ledger could not resolve within its retry budget.
type ConcurrentModificationError struct {
	UserID   string
	Symbol   string
	Attempts int
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification on %s/%s after %d attempts", e.UserID, e.Symbol, e.Attempts)
}
