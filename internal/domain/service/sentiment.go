package service

import (
	"StockSense/internal/domain/models"
)

// Aggregator combines per-source sentiment samples into a composite score.
// Implementations are pure over their inputs; callers own caching.
type Aggregator interface {
	Aggregate(symbol string, samples []models.SentimentSample) (models.CompositeSentiment, error)
}

// Valuer computes the market view of a holding against a quote.
type Valuer interface {
	Value(h *models.Holding, q *models.Quote) (models.Valuation, error)
}
