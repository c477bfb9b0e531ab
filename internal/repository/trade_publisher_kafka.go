package repository

import (
	"context"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	pkgkafka "StockSense/pkg/kafka"
)

// KafkaTradePublisher emits committed trades keyed by symbol, so all events
// for one symbol land on the same partition in order.
type KafkaTradePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaTradePublisher(producer *pkgkafka.Producer, topic string) drepo.Publisher {
	return &KafkaTradePublisher{producer: producer, topic: topic}
}

func (p *KafkaTradePublisher) Publish(ctx context.Context, t *models.Trade) error {
	payload := map[string]interface{}{
		"id":       t.ID,
		"user":     t.UserID,
		"symbol":   t.Symbol,
		"action":   string(t.Action),
		"quantity": t.Quantity,
		"price":    t.ExecutionPrice.String(),
		"ts":       t.Timestamp.Unix(),
	}
	if t.Action == models.ActionSell {
		payload["cost_basis"] = t.CostBasis.String()
	}
	return p.producer.Publish(ctx, p.topic, []byte(t.Symbol), payload)
}

func (p *KafkaTradePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
