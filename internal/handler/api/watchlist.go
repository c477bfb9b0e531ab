package api

import (
	"github.com/labstack/echo/v4"

	"StockSense/internal/domain/models"
	"StockSense/internal/usecase"
	xhttp "StockSense/pkg/http"
	xlogger "StockSense/pkg/logger"
)

// WatchlistHandler manages per-user watch sets.
type WatchlistHandler struct {
	logger    *xlogger.Logger
	watchlist *usecase.WatchlistService
}

func NewWatchlistHandler(logger *xlogger.Logger, watchlist *usecase.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, watchlist: watchlist}
}

func (h *WatchlistHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/watchlist", h.Add)
	e.DELETE("/api/watchlist/:user/:symbol", h.Remove)
	e.GET("/api/watchlist/:user", h.List)
}

func (h *WatchlistHandler) Add(c echo.Context) error {
	req := &models.WatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.watchlist.Add(c.Request().Context(), req.UserID, req.Symbol); err != nil {
		h.logger.Error("watchlist add error", xlogger.String("user", req.UserID), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, req)
}

func (h *WatchlistHandler) Remove(c echo.Context) error {
	userID, symbol := c.Param("user"), c.Param("symbol")
	if userID == "" || symbol == "" {
		return xhttp.BadRequestResponse(c, "user and symbol required")
	}
	if err := h.watchlist.Remove(c.Request().Context(), userID, symbol); err != nil {
		h.logger.Error("watchlist remove error", xlogger.String("user", userID), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *WatchlistHandler) List(c echo.Context) error {
	userID := c.Param("user")
	if userID == "" {
		return xhttp.BadRequestResponse(c, "user required")
	}
	symbols, err := h.watchlist.List(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("watchlist list error", xlogger.String("user", userID), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, symbols)
}
