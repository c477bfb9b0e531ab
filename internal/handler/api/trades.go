package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"StockSense/internal/domain/models"
	"StockSense/internal/service/ratelimit"
	"StockSense/internal/usecase"
	xhttp "StockSense/pkg/http"
	xlogger "StockSense/pkg/logger"
	"StockSense/pkg/util"
)

// TradesHandler accepts trade submissions and serves trade history.
// Submissions are rate limited per user so a runaway client cannot starve
// the per-position serialization for everyone else.
type TradesHandler struct {
	logger    *xlogger.Logger
	executor  *usecase.OrderExecutor
	portfolio *usecase.PortfolioService
	rl        *ratelimit.Limiter
}

func NewTradesHandler(logger *xlogger.Logger, executor *usecase.OrderExecutor, portfolio *usecase.PortfolioService) *TradesHandler {
	return &TradesHandler{logger: logger, executor: executor, portfolio: portfolio, rl: ratelimit.New()}
}

func (h *TradesHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/trades", h.Submit)
	e.GET("/api/trades", h.History)
}

func (h *TradesHandler) Submit(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(req.UserID+":trade", 10, 5) {
		h.logger.Warn("trade rate limited", xlogger.String("user", req.UserID))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	trade, err := h.executor.Execute(c.Request().Context(), req.UserID, req.Symbol, models.TradeAction(req.Action), req.Quantity)
	if err != nil {
		h.logger.Error("trade execute error",
			xlogger.String("user", req.UserID),
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return domainErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, trade)
}

func (h *TradesHandler) History(c echo.Context) error {
	req := &models.TradesQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	to := util.ParseTimeDefault(req.To, time.Now())
	from := util.ParseTimeDefault(req.From, to.AddDate(0, -1, 0))

	trades, err := h.portfolio.Trades(c.Request().Context(), req.UserID, req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("trade history error", xlogger.String("user", req.UserID), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}

	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		row := tradeRow{Trade: t}
		if t.Action == models.ActionSell {
			pl := t.RealizedPL()
			row.RealizedPL = &pl
		}
		rows = append(rows, row)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

type tradeRow struct {
	*models.Trade
	RealizedPL *decimal.Decimal `json:"realizedPL,omitempty"`
}
