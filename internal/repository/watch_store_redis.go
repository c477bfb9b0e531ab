package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	drepo "StockSense/internal/domain/repository"
)

// RedisWatchStore keeps per-user watch sets as Redis sets.
type RedisWatchStore struct {
	cli    *redis.Client
	prefix string
}

func NewRedisWatchStore(cli *redis.Client, prefix string) *RedisWatchStore {
	if prefix == "" {
		prefix = "stocksense"
	}
	return &RedisWatchStore{cli: cli, prefix: prefix}
}

func (s *RedisWatchStore) key(userID string) string {
	return fmt.Sprintf("%s:watch:%s", s.prefix, userID)
}

func (s *RedisWatchStore) Add(ctx context.Context, userID, symbol string) error {
	return s.cli.SAdd(ctx, s.key(userID), symbol).Err()
}

func (s *RedisWatchStore) Remove(ctx context.Context, userID, symbol string) error {
	return s.cli.SRem(ctx, s.key(userID), symbol).Err()
}

func (s *RedisWatchStore) List(ctx context.Context, userID string) ([]string, error) {
	symbols, err := s.cli.SMembers(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("watch list: %w", err)
	}
	sort.Strings(symbols)
	return symbols, nil
}

var _ drepo.WatchStore = (*RedisWatchStore)(nil)
