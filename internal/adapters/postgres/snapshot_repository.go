package postgres

import (
	"context"
	"fmt"
	"time"

	"ecbrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// SaveSnapshot stores one day of reference rates. Saving the same day twice
// overwrites the values. New currencies are added to the supported set.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	if s.IsEmpty() {
		return nil
	}

	codes := make([]string, 0, len(s.Rates))
	values := make([]string, 0, len(s.Rates))
	for c, v := range s.Rates {
		codes = append(codes, string(c))
		values = append(values, v.String())
	}

	const insertCurrencies = `
		insert into currencies (code)
		select unnest($1::text[])
		on conflict (code) do nothing;
	`
	const upsertRates = `
		insert into fx_reference_rates (rate_date, currency, value, fetched_at)
		select $1::date, r.currency, r.value::numeric, now()
		from unnest($2::text[], $3::text[]) as r(currency, value)
		on conflict (rate_date, currency) do update
		set value = excluded.value, fetched_at = excluded.fetched_at;
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, insertCurrencies, codes); err != nil {
		return fmt.Errorf("failed to insert currencies: %w", err)
	}
	if _, err = tx.Exec(ctx, upsertRates, s.Date, codes, values); err != nil {
		return fmt.Errorf("failed to upsert reference rates for %s: %w", s.Date.Format(time.DateOnly), err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent stored day, or
// domain.ErrSnapshotUnavailable when nothing was stored yet.
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context) (domain.Snapshot, error) {
	const q = `
		select rate_date, currency, value::text
		from fx_reference_rates
		where rate_date = (select max(rate_date) from fx_reference_rates);
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to query latest reference rates: %w", err)
	}
	defer rows.Close()

	snapshot := domain.Snapshot{Rates: make(map[domain.Currency]decimal.Decimal, 32)}
	for rows.Next() {
		var (
			date     time.Time
			currency string
			rawValue string
		)
		if err = rows.Scan(&date, &currency, &rawValue); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to scan reference rate: %w", err)
		}
		value, err := decimal.NewFromString(rawValue)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("invalid stored rate %q for %q: %w", rawValue, currency, err)
		}
		snapshot.Date = date
		snapshot.Rates[domain.Currency(currency)] = value
	}
	if err = rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("error iterating reference rates: %w", err)
	}
	if snapshot.IsEmpty() {
		return domain.Snapshot{}, domain.ErrSnapshotUnavailable
	}
	return snapshot, nil
}

// SupportedCurrencies lists every currency code known to the database.
func (r *SnapshotRepository) SupportedCurrencies(ctx context.Context) (map[domain.Currency]struct{}, error) {
	rows, err := r.pool.Query(ctx, `select code from currencies`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	m := make(map[domain.Currency]struct{})
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		m[domain.Currency(c)] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return m, nil
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}
