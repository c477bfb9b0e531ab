package api

import (
	"github.com/labstack/echo/v4"

	"StockSense/internal/usecase"
	xhttp "StockSense/pkg/http"
	xlogger "StockSense/pkg/logger"
)

// PortfolioHandler serves the valued portfolio view.
type PortfolioHandler struct {
	logger    *xlogger.Logger
	portfolio *usecase.PortfolioService
}

func NewPortfolioHandler(logger *xlogger.Logger, portfolio *usecase.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, portfolio: portfolio}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/portfolio/:user", h.Portfolio)
}

func (h *PortfolioHandler) Portfolio(c echo.Context) error {
	userID := c.Param("user")
	if userID == "" {
		return xhttp.BadRequestResponse(c, "user required")
	}

	rows, err := h.portfolio.Portfolio(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("portfolio view error", xlogger.String("user", userID), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
