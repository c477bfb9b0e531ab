package usecase

import (
	"context"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	mid "StockSense/internal/middleware"
)

// QuoteCollector consumes the live quote stream and keeps the board current.
type QuoteCollector struct {
	stream  drepo.QuoteStream
	board   *QuoteBoard
	metrics drepo.Metrics
	pipe    *mid.QuotePipeline
}

func NewQuoteCollector(stream drepo.QuoteStream, board *QuoteBoard, metrics drepo.Metrics, pipe *mid.QuotePipeline) *QuoteCollector {
	return &QuoteCollector{stream: stream, board: board, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the quote stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				return
			}
			if err != nil {
				c.metrics.RecordError("quote_stream")
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.metrics.RecordError("quote_stream_reconnect")
					return
				}
				// the old read goroutines exited; pick up fresh channels
				qCh, errCh = c.stream.Read(ctx)
			}
		case q, ok := <-qCh:
			if !ok {
				qCh = nil // wait for the error side to drive the reconnect
				continue
			}
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				c.board.Update(q)
			}
			price, _ := q.Price.Float64()
			c.metrics.RecordLastPrice(q.Symbol, price)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
