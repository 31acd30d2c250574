package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ecbrates/internal/domain"
	"ecbrates/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RateService interface {
	Lookup(ctx context.Context, req domain.QuoteRequest) (domain.Rate, error)
	Convert(ctx context.Context, req domain.QuoteRequest, amount decimal.Decimal) (domain.Conversion, error)
}

type CurrencyLister interface {
	SupportedCodes() []string
}

type Handler struct {
	service    RateService
	currencies CurrencyLister
}

func NewRateHandler(service RateService, currencies CurrencyLister) *Handler {
	return &Handler{service: service, currencies: currencies}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

const (
	msgUnavailable = "reference rates are unavailable right now, try again later"
	msgInternal    = "ups, couldn't get rate this time"
)

// writeServiceError maps service errors to http statuses. Unexpected errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, err error, fields logrus.Fields) {
	switch {
	case rate.IsInvalid(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		logrus.WithError(err).WithFields(fields).Warn(msgUnavailable)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		logrus.WithError(err).WithFields(fields).Error(msgInternal)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
