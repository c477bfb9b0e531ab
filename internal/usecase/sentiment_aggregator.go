package usecase

import (
	"time"

	"StockSense/internal/domain/models"
	domsvc "StockSense/internal/domain/service"
)

// Default source weights, renormalized over the sources actually present.
var defaultWeights = map[models.SourceKind]float64{
	models.SourceNews:    0.5,
	models.SourceAnalyst: 0.4,
	models.SourceSocial:  0.1,
}

const defaultStaleness = 24 * time.Hour

// SentimentAggregator combines the most recent fresh sample per source into
// a weighted composite. It holds no mutable state and is safe for concurrent
// use across symbols.
type SentimentAggregator struct {
	weights   map[models.SourceKind]float64
	staleness time.Duration
	now       func() time.Time
}

type AggregatorOption func(*SentimentAggregator)

// WithWeights overrides the per-source weights. Unknown sources are ignored.
func WithWeights(w map[models.SourceKind]float64) AggregatorOption {
	return func(a *SentimentAggregator) {
		if len(w) == 0 {
			return
		}
		m := make(map[models.SourceKind]float64, len(w))
		for k, v := range w {
			if k.Valid() && v > 0 {
				m[k] = v
			}
		}
		if len(m) > 0 {
			a.weights = m
		}
	}
}

// WithStaleness overrides the sample staleness window.
func WithStaleness(d time.Duration) AggregatorOption {
	return func(a *SentimentAggregator) {
		if d > 0 {
			a.staleness = d
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *SentimentAggregator) { a.now = now }
}

func NewSentimentAggregator(opts ...AggregatorOption) *SentimentAggregator {
	a := &SentimentAggregator{
		weights:   defaultWeights,
		staleness: defaultStaleness,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate filters stale and mismatched samples, keeps the most recent
// sample per source, and combines them with weights renormalized over the
// present sources. A source with no fresh sample carries no weight instead
// of counting as zero. Fails with *models.InsufficientSignalError when no
// source survives the filter.
func (a *SentimentAggregator) Aggregate(symbol string, samples []models.SentimentSample) (models.CompositeSentiment, error) {
	now := a.now()
	cutoff := now.Add(-a.staleness)

	latest := make(map[models.SourceKind]models.SentimentSample)
	for _, s := range samples {
		if s.Symbol != symbol || !s.Source.Valid() {
			continue
		}
		if s.AsOf.Before(cutoff) {
			continue
		}
		if prev, ok := latest[s.Source]; !ok || s.AsOf.After(prev.AsOf) {
			latest[s.Source] = s
		}
	}
	if len(latest) == 0 {
		return models.CompositeSentiment{}, &models.InsufficientSignalError{Symbol: symbol}
	}

	var weightSum float64
	for kind := range latest {
		weightSum += a.weights[kind]
	}
	if weightSum <= 0 {
		return models.CompositeSentiment{}, &models.InsufficientSignalError{Symbol: symbol}
	}

	perSource := make(map[models.SourceKind]float64, len(latest))
	var composite float64
	for kind, s := range latest {
		perSource[kind] = s.Score
		composite += s.Score * (a.weights[kind] / weightSum)
	}
	composite = clamp(composite, -1, 1)

	return models.CompositeSentiment{
		Symbol:     symbol,
		PerSource:  perSource,
		Composite:  composite,
		ComputedAt: now,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ domsvc.Aggregator = (*SentimentAggregator)(nil)
