package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// QuoteRequest asks for the rate between a base currency (the one the caller
// holds) and a quote currency (the one the caller wants). To know how much
// 1 EUR is worth in USD, EUR is the base and USD is the quote.
//
// Values are immutable and only produced by QuoteRequestBuilder.Build. Build
// does not validate; consumers call Validate before using the pair.
type QuoteRequest struct {
	baseCurrency  Currency
	quoteCurrency Currency
}

func (r QuoteRequest) BaseCurrency() Currency { return r.baseCurrency }

func (r QuoteRequest) QuoteCurrency() Currency { return r.quoteCurrency }

// Validate reports the first missing field, base currency first.
func (r QuoteRequest) Validate() error {
	if r.baseCurrency.IsZero() {
		return ErrBaseRequired
	}
	if r.quoteCurrency.IsZero() {
		return ErrQuoteRequired
	}
	return nil
}

func (r QuoteRequest) Equal(other QuoteRequest) bool {
	return r.baseCurrency == other.baseCurrency && r.quoteCurrency == other.quoteCurrency
}

// Hash is stable across calls and processes, and equal requests hash equally.
func (r QuoteRequest) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(r.baseCurrency))
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(string(r.quoteCurrency))
	return d.Sum64()
}

// Reversed returns the request for the opposite conversion direction.
func (r QuoteRequest) Reversed() QuoteRequest {
	return QuoteRequest{baseCurrency: r.quoteCurrency, quoteCurrency: r.baseCurrency}
}

// Key renders the pair as "BASE/QUOTE" for cache keys and logs.
func (r QuoteRequest) Key() string {
	return string(r.baseCurrency) + "/" + string(r.quoteCurrency)
}

func (r QuoteRequest) String() string {
	return fmt.Sprintf("QuoteRequest{baseCurrency=%s, quoteCurrency=%s}",
		orNull(r.baseCurrency), orNull(r.quoteCurrency))
}

func orNull(c Currency) string {
	if c.IsZero() {
		return "null"
	}
	return string(c)
}

// QuoteRequestBuilder accumulates the fields of a QuoteRequest. It is not safe
// for concurrent use.
type QuoteRequestBuilder struct {
	baseCurrency  Currency
	quoteCurrency Currency
}

func NewQuoteRequestBuilder() *QuoteRequestBuilder {
	return &QuoteRequestBuilder{}
}

// BaseCurrency sets the currency the caller holds an amount in.
func (b *QuoteRequestBuilder) BaseCurrency(c Currency) *QuoteRequestBuilder {
	b.baseCurrency = c
	return b
}

// QuoteCurrency sets the currency the caller wants the amount converted into.
func (b *QuoteRequestBuilder) QuoteCurrency(c Currency) *QuoteRequestBuilder {
	b.quoteCurrency = c
	return b
}

// Build returns a snapshot of the current builder state without validating it.
func (b *QuoteRequestBuilder) Build() QuoteRequest {
	return QuoteRequest{baseCurrency: b.baseCurrency, quoteCurrency: b.quoteCurrency}
}

// NewQuoteRequest is shorthand for building a request from both currencies.
func NewQuoteRequest(base, quote Currency) QuoteRequest {
	return NewQuoteRequestBuilder().BaseCurrency(base).QuoteCurrency(quote).Build()
}
