package handler

import (
	"net/http"
	"time"

	"ecbrates/internal/domain"
	"ecbrates/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ConvertResponse struct {
	Base      string          `json:"base" example:"EUR"`
	Quote     string          `json:"quote" example:"USD"`
	Rate      decimal.Decimal `json:"rate" swaggertype:"string" example:"1.0321"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"10.5"`
	Converted decimal.Decimal `json:"converted" swaggertype:"string" example:"10.83705"`
	Date      string          `json:"date" example:"2025-01-02"`
}

// Convert godoc
// @Summary Convert an amount
// @Description Convert an amount of base currency into quote currency using the latest ECB reference rates
// @Tags Rates
// @Produce json
// @Param base query string true "Base currency code" example(EUR)
// @Param quote query string true "Quote currency code" example(USD)
// @Param amount query string true "Non-negative amount" example(10.5)
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /rates/convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawAmount := q.Get("amount")
	if rawAmount == "" {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}

	req := domain.NewQuoteRequestBuilder().
		BaseCurrency(rate.ParseCurrency(q.Get("base"))).
		QuoteCurrency(rate.ParseCurrency(q.Get("quote"))).
		Build()

	c, err := h.service.Convert(r.Context(), req, amount)
	if err != nil {
		writeServiceError(w, err, logrus.Fields{"handler": "Convert", "request": req.String(), "amount": rawAmount})
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Base:      c.Rate.Request.BaseCurrency().String(),
		Quote:     c.Rate.Request.QuoteCurrency().String(),
		Rate:      c.Rate.Value,
		Amount:    c.Amount,
		Converted: c.Converted,
		Date:      c.Rate.Date.Format(time.DateOnly),
	})
}
