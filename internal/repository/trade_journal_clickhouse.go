package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
)

// ClickHouseTradeJournal implements TradeJournal on ClickHouse. The table is
// a ReplacingMergeTree ordered by trade id, so redelivered events collapse
// to one row and appends stay idempotent.
type ClickHouseTradeJournal struct {
	db    *sql.DB
	table string
}

func NewClickHouseTradeJournal(db *sql.DB, table string) drepo.TradeJournal {
	return &ClickHouseTradeJournal{db: db, table: table}
}

func (j *ClickHouseTradeJournal) Append(ctx context.Context, t *models.Trade) error {
	q := fmt.Sprintf("INSERT INTO %s (id, user_id, symbol, action, quantity, price, cost_basis, ts) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", j.table)
	price, _ := t.ExecutionPrice.Float64()
	basis, _ := t.CostBasis.Float64()
	_, err := j.db.ExecContext(ctx, q,
		t.ID,
		t.UserID,
		t.Symbol,
		string(t.Action),
		t.Quantity,
		price,
		basis,
		t.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

func (j *ClickHouseTradeJournal) Query(ctx context.Context, userID, symbol string, from, to time.Time, limit int) ([]*models.Trade, error) {
	q := fmt.Sprintf("SELECT id, user_id, symbol, action, quantity, price, cost_basis, ts FROM %s WHERE user_id = ? AND ts >= ? AND ts <= ?", j.table)
	args := []interface{}{userID, from, to}
	if symbol != "" {
		q += " AND symbol = ?"
		args = append(args, symbol)
	}
	q += " ORDER BY ts DESC LIMIT ?"
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		var (
			t      models.Trade
			action string
			price  float64
			basis  float64
			ts     time.Time
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &action, &t.Quantity, &price, &basis, &ts); err != nil {
			return nil, err
		}
		t.Action = models.TradeAction(action)
		t.ExecutionPrice = decimal.NewFromFloat(price)
		t.CostBasis = decimal.NewFromFloat(basis)
		t.Timestamp = ts
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

func (j *ClickHouseTradeJournal) Health(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *ClickHouseTradeJournal) Close() error {
	return nil // pool is managed by pkg/clickhouse
}
