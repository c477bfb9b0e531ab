package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	drepo "StockSense/internal/domain/repository"
	"StockSense/internal/usecase"
)

// HealthHandler reports liveness of the infrastructure dependencies.
type HealthHandler struct {
	journal   drepo.TradeJournal
	collector *usecase.QuoteCollector
	redis     *redis.Client
}

func NewHealthHandler(journal drepo.TradeJournal, collector *usecase.QuoteCollector, redisCli *redis.Client) *HealthHandler {
	return &HealthHandler{journal: journal, collector: collector, redis: redisCli}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if h.journal != nil {
		if err := h.journal.Health(ctx); err != nil {
			status["journal"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if h.collector != nil && !h.collector.IsConnected() {
		status["quote_stream"] = "disconnected"
	}
	if code != http.StatusOK {
		status["status"] = "degraded"
	}
	return c.JSON(code, status)
}
