package rate

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"ecbrates/internal/domain"

	"golang.org/x/text/currency"
)

var (
	ErrBaseInvalid      = errors.New("base currency is not a valid ISO 4217 code")
	ErrQuoteInvalid     = errors.New("quote currency is not a valid ISO 4217 code")
	ErrBaseUnsupported  = errors.New("base currency not supported")
	ErrQuoteUnsupported = errors.New("quote currency not supported")
)

type CurrencyValidator struct {
	supportedCodesSet map[domain.Currency]struct{} // read only copy
	supportedCodesLst []string                     // read only copy
}

// ValidateRequest checks presence first (QuoteRequest.Validate), then that both
// codes are ISO 4217 codes quoted by the ECB.
func (v *CurrencyValidator) ValidateRequest(req domain.QuoteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if !isISO(req.BaseCurrency()) {
		return ErrBaseInvalid
	}
	if !isISO(req.QuoteCurrency()) {
		return ErrQuoteInvalid
	}
	if _, ok := v.supportedCodesSet[req.BaseCurrency()]; !ok {
		return ErrBaseUnsupported
	}
	if _, ok := v.supportedCodesSet[req.QuoteCurrency()]; !ok {
		return ErrQuoteUnsupported
	}
	return nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

// ParseCurrency normalises user input into a currency code. Blank input yields
// the zero Currency so that QuoteRequest.Validate reports it.
func ParseCurrency(raw string) domain.Currency {
	return domain.Currency(strings.ToUpper(strings.TrimSpace(raw)))
}

func isISO(c domain.Currency) bool {
	unit, err := currency.ParseISO(string(c))
	return err == nil && unit.String() == string(c)
}

// NewValidator always includes EUR, the currency every reference rate is
// expressed against.
func NewValidator(supportedCurrencies map[domain.Currency]struct{}) *CurrencyValidator {
	codesSet := maps.Clone(supportedCurrencies)
	if codesSet == nil {
		codesSet = make(map[domain.Currency]struct{})
	}
	codesSet[domain.EUR] = struct{}{}

	codesLst := make([]string, 0, len(codesSet))
	for c := range codesSet {
		codesLst = append(codesLst, string(c))
	}
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}
