package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceECB marks rates derived from the ECB euro reference rates.
const SourceECB = "ECB"

type Rate struct {
	Request QuoteRequest
	Value   decimal.Decimal
	Date    time.Time
	Source  string
}

type Conversion struct {
	Rate      Rate
	Amount    decimal.Decimal
	Converted decimal.Decimal
}

// Snapshot holds one day of ECB reference rates, expressed as units of
// currency per 1 EUR.
type Snapshot struct {
	Date  time.Time
	Rates map[Currency]decimal.Decimal
}

// PerEUR returns how many units of c one euro buys. EUR itself is always 1.
func (s Snapshot) PerEUR(c Currency) (decimal.Decimal, bool) {
	if c == EUR {
		return decimal.NewFromInt(1), true
	}
	v, ok := s.Rates[c]
	return v, ok
}

func (s Snapshot) IsEmpty() bool { return len(s.Rates) == 0 }
