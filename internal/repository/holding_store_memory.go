package repository

import (
	"context"
	"sort"
	"sync"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
)

// MemoryHoldingStore is the in-process HoldingStore. Swap enforces the same
// versioned compare-and-swap contract as the Redis store, so the ledger's
// concurrency behavior is identical across backends.
type MemoryHoldingStore struct {
	mu       sync.RWMutex
	holdings map[string]map[string]*models.Holding // userID -> symbol -> holding
}

func NewMemoryHoldingStore() *MemoryHoldingStore {
	return &MemoryHoldingStore{holdings: make(map[string]map[string]*models.Holding)}
}

func (s *MemoryHoldingStore) Get(_ context.Context, userID, symbol string) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[userID][symbol]
	if !ok {
		return nil, &models.NotFoundError{Kind: "holding", Key: userID + "/" + symbol}
	}
	cp := *h
	return &cp, nil
}

func (s *MemoryHoldingStore) List(_ context.Context, userID string) ([]*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bySymbol := s.holdings[userID]
	out := make([]*models.Holding, 0, len(bySymbol))
	for _, h := range bySymbol {
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (s *MemoryHoldingStore) Swap(_ context.Context, userID, symbol string, prev, next *models.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.holdings[userID][symbol]
	switch {
	case prev == nil && cur != nil:
		return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
	case prev != nil && cur == nil:
		return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
	case prev != nil && cur.Version != prev.Version:
		return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
	}

	if next == nil {
		delete(s.holdings[userID], symbol)
		if len(s.holdings[userID]) == 0 {
			delete(s.holdings, userID)
		}
		return nil
	}

	cp := *next
	if prev != nil {
		cp.Version = prev.Version + 1
	}
	if s.holdings[userID] == nil {
		s.holdings[userID] = make(map[string]*models.Holding)
	}
	s.holdings[userID][symbol] = &cp
	return nil
}

var _ drepo.HoldingStore = (*MemoryHoldingStore)(nil)
