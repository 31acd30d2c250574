package adapters

import (
	"context"

	"ecbrates/internal/domain"
)

type RateClient interface {
	FetchDaily(ctx context.Context) (domain.Snapshot, error)
}

type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, s domain.Snapshot) error
	LatestSnapshot(ctx context.Context) (domain.Snapshot, error)
	SupportedCurrencies(ctx context.Context) (map[domain.Currency]struct{}, error)
}

// RateCache never fails: backend errors are treated as misses.
type RateCache interface {
	Get(ctx context.Context, req domain.QuoteRequest) (domain.Rate, bool)
	Set(ctx context.Context, r domain.Rate)
	Clear(ctx context.Context)
}
