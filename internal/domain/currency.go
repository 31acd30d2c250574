package domain

// Currency is an ISO 4217 currency code such as "EUR". The zero value means
// the currency was not set.
type Currency string

// EUR is the currency every ECB reference rate is quoted against.
const EUR Currency = "EUR"

func (c Currency) IsZero() bool { return c == "" }

func (c Currency) String() string { return string(c) }
