package usecase

import (
	"context"
	"fmt"

	applogger "StockSense/pkg/logger"
	"StockSense/pkg/queue"
)

// WarmupJobType is the queue message type for sentiment warmup requests.
const WarmupJobType = "sentiment.warmup"

// WarmupPayload is the queued request to precompute a symbol's composite.
type WarmupPayload struct {
	Symbol string `json:"symbol"`
}

// SentimentWarmupJob consumes warmup requests and primes the composite cache.
type SentimentWarmupJob struct {
	sentiment *SentimentService
	logger    *applogger.Logger
}

func NewSentimentWarmupJob(sentiment *SentimentService, logger *applogger.Logger) *SentimentWarmupJob {
	return &SentimentWarmupJob{sentiment: sentiment, logger: logger}
}

func (j *SentimentWarmupJob) Name() string { return "sentiment_warmup" }

func (j *SentimentWarmupJob) Type() string { return WarmupJobType }

func (j *SentimentWarmupJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[WarmupPayload](payload)
	if err != nil {
		return fmt.Errorf("parse warmup payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("warmup payload missing symbol")
	}
	j.logger.Debug("warming sentiment composite", applogger.String("symbol", p.Symbol))
	return j.sentiment.Warm(ctx, p.Symbol)
}

var _ queue.Job = (*SentimentWarmupJob)(nil)
