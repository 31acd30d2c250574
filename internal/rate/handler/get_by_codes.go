package handler

import (
	"net/http"
	"time"

	"ecbrates/internal/domain"
	"ecbrates/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type GetByCodesResponse struct {
	Base   string          `json:"base" example:"USD"`
	Quote  string          `json:"quote" example:"JPY"`
	Value  decimal.Decimal `json:"value" swaggertype:"string" example:"157.872299"`
	Date   string          `json:"date" example:"2025-01-02"`
	Source string          `json:"source" example:"ECB"`
}

// GetByCodes godoc
// @Summary Get rate by currency codes
// @Description Get the latest ECB reference rate for a currency pair, crossed through EUR when needed
// @Tags Rates
// @Produce json
// @Param base path string true "Base currency code" example(USD)
// @Param quote path string true "Quote currency code" example(JPY)
// @Success 200 {object} GetByCodesResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /rates/{base}/{quote} [get]
func (h *Handler) GetByCodes(w http.ResponseWriter, r *http.Request) {
	req := domain.NewQuoteRequestBuilder().
		BaseCurrency(rate.ParseCurrency(chi.URLParam(r, "base"))).
		QuoteCurrency(rate.ParseCurrency(chi.URLParam(r, "quote"))).
		Build()

	found, err := h.service.Lookup(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "GetByCodes", "request": req.String()})
		return
	}

	writeJSON(w, http.StatusOK, GetByCodesResponse{
		Base:   found.Request.BaseCurrency().String(),
		Quote:  found.Request.QuoteCurrency().String(),
		Value:  found.Value,
		Date:   found.Date.Format(time.DateOnly),
		Source: found.Source,
	})
}
