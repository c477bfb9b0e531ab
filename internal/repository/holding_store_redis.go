package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
)

// RedisHoldingStore is the durable HoldingStore. Each position lives under
// its own key with an embedded version; Swap runs inside WATCH/MULTI so a
// concurrent writer aborts the transaction and surfaces as a version
// conflict for the ledger to retry.
type RedisHoldingStore struct {
	cli    *redis.Client
	prefix string
}

func NewRedisHoldingStore(cli *redis.Client, prefix string) *RedisHoldingStore {
	if prefix == "" {
		prefix = "stocksense"
	}
	return &RedisHoldingStore{cli: cli, prefix: prefix}
}

type holdingRecord struct {
	UserID      string `json:"user"`
	Symbol      string `json:"symbol"`
	Quantity    int64  `json:"quantity"`
	AverageCost string `json:"average_cost"`
	Version     uint64 `json:"version"`
	UpdatedAt   int64  `json:"updated_at"`
}

func (s *RedisHoldingStore) key(userID, symbol string) string {
	return fmt.Sprintf("%s:holding:%s:%s", s.prefix, userID, symbol)
}

func (s *RedisHoldingStore) indexKey(userID string) string {
	return fmt.Sprintf("%s:holdings:%s", s.prefix, userID)
}

func (s *RedisHoldingStore) Get(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	b, err := s.cli.Get(ctx, s.key(userID, symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &models.NotFoundError{Kind: "holding", Key: userID + "/" + symbol}
		}
		return nil, fmt.Errorf("redis get holding: %w", err)
	}
	return decodeHolding(b)
}

func (s *RedisHoldingStore) List(ctx context.Context, userID string) ([]*models.Holding, error) {
	symbols, err := s.cli.SMembers(ctx, s.indexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis holdings index: %w", err)
	}
	sort.Strings(symbols)

	out := make([]*models.Holding, 0, len(symbols))
	for _, sym := range symbols {
		h, err := s.Get(ctx, userID, sym)
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			// index entry left behind by a closed position; repair lazily
			_ = s.cli.SRem(ctx, s.indexKey(userID), sym).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *RedisHoldingStore) Swap(ctx context.Context, userID, symbol string, prev, next *models.Holding) error {
	key := s.key(userID, symbol)
	idx := s.indexKey(userID)

	txn := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		exists := true
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return err
			}
			exists = false
		}

		switch {
		case prev == nil && exists:
			return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
		case prev != nil && !exists:
			return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
		case prev != nil:
			cur, derr := decodeHolding(b)
			if derr != nil {
				return derr
			}
			if cur.Version != prev.Version {
				return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
				pipe.SRem(ctx, idx, symbol)
				return nil
			}
			version := uint64(0)
			if prev != nil {
				version = prev.Version + 1
			}
			payload, merr := json.Marshal(holdingRecord{
				UserID:      next.UserID,
				Symbol:      next.Symbol,
				Quantity:    next.Quantity,
				AverageCost: next.AverageCost.String(),
				Version:     version,
				UpdatedAt:   next.UpdatedAt.Unix(),
			})
			if merr != nil {
				return merr
			}
			pipe.Set(ctx, key, payload, 0)
			pipe.SAdd(ctx, idx, symbol)
			return nil
		})
		return err
	}

	err := s.cli.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		return &models.ConcurrentModificationError{UserID: userID, Symbol: symbol}
	}
	return err
}

func decodeHolding(b []byte) (*models.Holding, error) {
	var rec holdingRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode holding: %w", err)
	}
	avg, err := decimal.NewFromString(rec.AverageCost)
	if err != nil {
		return nil, fmt.Errorf("decode average cost: %w", err)
	}
	return &models.Holding{
		UserID:      rec.UserID,
		Symbol:      rec.Symbol,
		Quantity:    rec.Quantity,
		AverageCost: avg,
		Version:     rec.Version,
		UpdatedAt:   time.Unix(rec.UpdatedAt, 0),
	}, nil
}

var _ drepo.HoldingStore = (*RedisHoldingStore)(nil)
