package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"StockSense/internal/domain/models"
	xhttp "StockSense/pkg/http"
)

// mapDomainError translates domain errors into transport errors. Ledger and
// quote conflicts are 409s because the request was well formed and may
// succeed on retry; missing data is a 404.
func mapDomainError(err error) *xhttp.AppError {
	var (
		notFound     *models.NotFoundError
		noSignal     *models.InsufficientSignalError
		staleQuote   *models.StaleQuoteError
		shortSell    *models.InsufficientPositionError
		casExhausted *models.ConcurrentModificationError
	)
	switch {
	case errors.As(err, &notFound):
		return xhttp.NotFoundError(notFound.Error())
	case errors.As(err, &noSignal):
		return xhttp.NewAppError("ERR_INSUFFICIENT_SIGNAL", "", noSignal.Error(), http.StatusNotFound)
	case errors.As(err, &staleQuote):
		return xhttp.ConflictError("ERR_STALE_QUOTE", staleQuote.Error())
	case errors.As(err, &shortSell):
		return xhttp.ConflictError("ERR_INSUFFICIENT_POSITION", shortSell.Error())
	case errors.As(err, &casExhausted):
		return xhttp.ConflictError("ERR_CONCURRENT_MODIFICATION", casExhausted.Error())
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

func domainErrorResponse(c echo.Context, err error) error {
	return xhttp.AppErrorResponse(c, mapDomainError(err))
}
