package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSense/internal/domain/models"
)

type memWatchStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func newMemWatchStore() *memWatchStore {
	return &memWatchStore{sets: make(map[string]map[string]struct{})}
}

func (s *memWatchStore) Add(_ context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sets[userID] == nil {
		s.sets[userID] = make(map[string]struct{})
	}
	s.sets[userID][symbol] = struct{}{}
	return nil
}

func (s *memWatchStore) Remove(_ context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[userID], symbol)
	return nil
}

func (s *memWatchStore) List(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sets[userID]))
	for sym := range s.sets[userID] {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out, nil
}

type memQueue struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (q *memQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if p, ok := payload.(*WarmupPayload); ok {
		q.published = append(q.published, msgType+":"+p.Symbol)
	}
	return nil
}

func TestWatchlistAddEnqueuesWarmup(t *testing.T) {
	q := &memQueue{}
	svc := NewWatchlistService(newMemWatchStore(), q, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "u1", "AAPL"))
	require.NoError(t, svc.Add(ctx, "u1", "MSFT"))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, list)
	assert.Equal(t, []string{WarmupJobType + ":AAPL", WarmupJobType + ":MSFT"}, q.published)
}

func TestWatchlistAddSucceedsWhenWarmupFails(t *testing.T) {
	q := &memQueue{err: fmt.Errorf("queue down")}
	svc := NewWatchlistService(newMemWatchStore(), q, testLogger())

	require.NoError(t, svc.Add(context.Background(), "u1", "AAPL"))
	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, list)
}

func TestWatchlistWarmupDisabled(t *testing.T) {
	svc := NewWatchlistService(newMemWatchStore(), nil, testLogger())
	require.NoError(t, svc.Add(context.Background(), "u1", "AAPL"))
}

func TestWatchlistRemove(t *testing.T) {
	svc := NewWatchlistService(newMemWatchStore(), nil, testLogger())
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, "u1", "AAPL"))
	require.NoError(t, svc.Remove(ctx, "u1", "AAPL"))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWarmupJobPrimesComposite(t *testing.T) {
	p := &fakeProvider{samples: []models.SentimentSample{
		sample("AAPL", models.SourceNews, 0.6, time.Hour),
	}}
	svc, mem := newSentimentFixture(p)
	job := NewSentimentWarmupJob(svc, testLogger())

	assert.Equal(t, WarmupJobType, job.Type())
	require.NoError(t, job.Handle(context.Background(), map[string]interface{}{"symbol": "AAPL"}))

	var cached models.CompositeSentiment
	require.NoError(t, mem.Get(context.Background(), cacheKey("AAPL"), &cached))
	assert.InDelta(t, 0.6, cached.Composite, 1e-9)
}

func TestWarmupJobRejectsEmptySymbol(t *testing.T) {
	p := &fakeProvider{}
	svc, _ := newSentimentFixture(p)
	job := NewSentimentWarmupJob(svc, testLogger())

	require.Error(t, job.Handle(context.Background(), map[string]interface{}{}))
}
