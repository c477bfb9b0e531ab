package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	applogger "StockSense/pkg/logger"
)

const defaultQuoteFreshness = 60 * time.Second

// OrderExecutor validates a requested trade against the latest quote and
// commits it through the ledger. The journal backend routes committed trades
// either through Kafka (a consumer persists them) or straight to storage.
type OrderExecutor struct {
	quotes    drepo.QuoteProvider
	ledger    *HoldingsLedger
	journal   drepo.TradeJournal
	pub       drepo.Publisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
	backend   string // "kafka" or "clickhouse"
	freshness time.Duration
	now       func() time.Time
}

func NewOrderExecutor(
	quotes drepo.QuoteProvider,
	ledger *HoldingsLedger,
	journal drepo.TradeJournal,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	backend string,
	freshness time.Duration,
) *OrderExecutor {
	if freshness <= 0 {
		freshness = defaultQuoteFreshness
	}
	return &OrderExecutor{
		quotes:    quotes,
		ledger:    ledger,
		journal:   journal,
		pub:       pub,
		metrics:   metrics,
		logger:    logger,
		backend:   backend,
		freshness: freshness,
		now:       time.Now,
	}
}

// Execute runs the full validate-then-commit path. Either the returned Trade
// was fully applied to the ledger, or nothing changed and an error explains
// why. SELL quantity checks are the ledger's job, keeping that rule in one
// place and free of races against concurrent trades.
func (e *OrderExecutor) Execute(ctx context.Context, userID, symbol string, action models.TradeAction, quantity int64) (*models.Trade, error) {
	start := e.now()

	if quantity <= 0 {
		e.metrics.RecordTradeRejected("bad_quantity")
		return nil, fmt.Errorf("quantity must be a positive integer, got %d", quantity)
	}
	if !action.Valid() {
		e.metrics.RecordTradeRejected("bad_action")
		return nil, fmt.Errorf("unknown action %q", action)
	}

	quote, err := e.quotes.Latest(ctx, symbol)
	if err != nil {
		e.metrics.RecordTradeRejected("no_quote")
		return nil, err
	}
	if !quote.FreshAt(start, e.freshness) {
		e.metrics.RecordTradeRejected("stale_quote")
		return nil, &models.StaleQuoteError{Symbol: symbol, AsOf: quote.AsOf, Bound: e.freshness}
	}

	trade := &models.Trade{
		ID:             uuid.NewString(),
		UserID:         userID,
		Symbol:         symbol,
		Action:         action,
		Quantity:       quantity,
		ExecutionPrice: quote.Price,
		Timestamp:      start,
	}

	if _, err := e.ledger.ApplyTrade(ctx, trade); err != nil {
		e.metrics.RecordTradeRejected(rejectKind(err))
		return nil, err
	}

	// The trade is committed. Journal persistence is downstream and must not
	// un-commit it; failures are logged and counted, and the Kafka path
	// redelivers on consumer retry.
	e.record(ctx, trade)

	e.metrics.RecordTradeApplied(string(action), symbol)
	price, _ := quote.Price.Float64()
	e.metrics.RecordLastPrice(symbol, price)
	e.metrics.RecordLatency("execute_trade", time.Since(start).Seconds())
	return trade, nil
}

func (e *OrderExecutor) record(ctx context.Context, t *models.Trade) {
	var err error
	switch e.backend {
	case "kafka":
		err = e.pub.Publish(ctx, t)
	default:
		err = e.journal.Append(ctx, t)
	}
	if err != nil {
		e.metrics.RecordError("journal_record")
		e.logger.Error("trade journal record failed",
			applogger.String("trade_id", t.ID),
			applogger.String("symbol", t.Symbol),
			applogger.Error(err),
		)
	}
}

func rejectKind(err error) string {
	switch err.(type) {
	case *models.InsufficientPositionError:
		return "insufficient_position"
	case *models.ConcurrentModificationError:
		return "concurrent_modification"
	default:
		return "ledger"
	}
}

// Close releases journal and publisher resources.
func (e *OrderExecutor) Close() {
	if e.pub != nil {
		_ = e.pub.Close()
	}
	if e.journal != nil {
		_ = e.journal.Close()
	}
}
