package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid quote request")
	ErrBaseRequired   = fmt.Errorf("%w: baseCurrency must not be null", ErrInvalidRequest)
	ErrQuoteRequired  = fmt.Errorf("%w: quoteCurrency must not be null", ErrInvalidRequest)

	ErrRateNotFound        = errors.New("rate not found")
	ErrSnapshotUnavailable = errors.New("reference rates snapshot unavailable")
)
