package usecase

import (
	"context"

	drepo "StockSense/internal/domain/repository"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/queue"
)

// WatchlistService manages per-user watch sets. Adding a symbol enqueues a
// sentiment warmup job so the composite is already cached when the client
// view asks for it.
type WatchlistService struct {
	store  drepo.WatchStore
	warmup queue.QueueService // nil disables warmup
	logger *applogger.Logger
}

func NewWatchlistService(store drepo.WatchStore, warmup queue.QueueService, logger *applogger.Logger) *WatchlistService {
	return &WatchlistService{store: store, warmup: warmup, logger: logger}
}

func (s *WatchlistService) Add(ctx context.Context, userID, symbol string) error {
	if err := s.store.Add(ctx, userID, symbol); err != nil {
		return err
	}
	if s.warmup != nil {
		if err := s.warmup.PublishMessage(ctx, WarmupJobType, &WarmupPayload{Symbol: symbol}); err != nil {
			// warmup is best-effort; the composite is computed on first read instead
			s.logger.Warn("warmup enqueue failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return nil
}

func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	return s.store.Remove(ctx, userID, symbol)
}

func (s *WatchlistService) List(ctx context.Context, userID string) ([]string, error) {
	return s.store.List(ctx, userID)
}
