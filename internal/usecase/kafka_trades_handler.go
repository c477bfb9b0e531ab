package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	pkgkafka "StockSense/pkg/kafka"
)

// KafkaTradesHandler consumes committed-trade events and persists them to
// the journal. Appends are idempotent on trade ID, so redelivery after a
// consumer retry is safe.
type KafkaTradesHandler struct {
	topic   string
	journal drepo.TradeJournal
	metrics drepo.Metrics
}

func NewKafkaTradesHandler(topic string, journal drepo.TradeJournal, metrics drepo.Metrics) *KafkaTradesHandler {
	return &KafkaTradesHandler{topic: topic, journal: journal, metrics: metrics}
}

func (h *KafkaTradesHandler) Topic() string { return h.topic }

// TradeEvent is the wire schema for committed trades.
type TradeEvent struct {
	ID        string `json:"id"`
	UserID    string `json:"user"`
	Symbol    string `json:"symbol"`
	Action    string `json:"action"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
	CostBasis string `json:"cost_basis,omitempty"`
	Timestamp int64  `json:"ts"` // unix seconds
}

func (h *KafkaTradesHandler) Handle(ctx context.Context, b []byte) error {
	var ev TradeEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	price, err := decimal.NewFromString(ev.Price)
	if err != nil {
		h.metrics.RecordError("consumer_bad_price")
		return err
	}
	basis := decimal.Zero
	if ev.CostBasis != "" {
		if basis, err = decimal.NewFromString(ev.CostBasis); err != nil {
			h.metrics.RecordError("consumer_bad_basis")
			return err
		}
	}

	start := time.Now()
	err = h.journal.Append(ctx, &models.Trade{
		ID:             ev.ID,
		UserID:         ev.UserID,
		Symbol:         ev.Symbol,
		Action:         models.TradeAction(ev.Action),
		Quantity:       ev.Quantity,
		ExecutionPrice: price,
		CostBasis:      basis,
		Timestamp:      time.Unix(ev.Timestamp, 0),
	})
	h.metrics.RecordLatency("journal_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTradesHandler)(nil)
