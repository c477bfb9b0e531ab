package api

import (
	"github.com/labstack/echo/v4"

	"StockSense/internal/domain/models"
	"StockSense/internal/usecase"
	xhttp "StockSense/pkg/http"
	xlogger "StockSense/pkg/logger"
)

// SentimentHandler serves composite sentiment reads.
type SentimentHandler struct {
	logger    *xlogger.Logger
	sentiment *usecase.SentimentService
}

func NewSentimentHandler(logger *xlogger.Logger, sentiment *usecase.SentimentService) *SentimentHandler {
	return &SentimentHandler{logger: logger, sentiment: sentiment}
}

func (h *SentimentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sentiment")
	g.GET("/:symbol", h.Composite)
	g.GET("/:symbol/trend", h.Trend)
}

func (h *SentimentHandler) Composite(c echo.Context) error {
	req := &models.SentimentQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cs, err := h.sentiment.Composite(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("sentiment composite error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, cs)
}

func (h *SentimentHandler) Trend(c echo.Context) error {
	req := &models.SentimentQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.sentiment.Trend(req.Symbol))
}
