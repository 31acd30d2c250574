package rate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecbrates/internal/adapters"
	"ecbrates/internal/domain"
	"ecbrates/internal/platform/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	ratePrecision = 6

	// limits on accepted amounts; larger values are rejected before any arithmetic
	maxAmountIntegerDigits = 30
	maxAmountScale         = 18
)

var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrAmountTooLarge   = fmt.Errorf("amount must have at most %d integer digits", maxAmountIntegerDigits)
	ErrAmountTooPrecise = fmt.Errorf("amount must have at most %d decimal places", maxAmountScale)
)

type Service struct {
	validator *CurrencyValidator
	client    adapters.RateClient
	repo      adapters.SnapshotRepository
	cache     adapters.RateCache
	metrics   *metrics.Metrics

	mu         sync.RWMutex
	snapshot   domain.Snapshot
	generation uint64     // bumped on every snapshot swap
	loadMu     sync.Mutex // serializes lazy snapshot loading
}

// Lookup returns the rate for req, crossing through EUR when neither side is
// the euro.
func (s *Service) Lookup(ctx context.Context, req domain.QuoteRequest) (domain.Rate, error) {
	r, err := s.lookup(ctx, req)
	s.metrics.ObserveLookup(lookupResult(err))
	return r, err
}

func (s *Service) lookup(ctx context.Context, req domain.QuoteRequest) (domain.Rate, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return domain.Rate{}, err
	}

	if req.BaseCurrency() == req.QuoteCurrency() {
		return s.identityRate(req), nil
	}

	if r, ok := s.cache.Get(ctx, req); ok {
		s.metrics.CacheHit()
		return r, nil
	}

	snapshot, generation, err := s.currentSnapshot(ctx)
	if err != nil {
		return domain.Rate{}, err
	}

	value, err := crossRate(snapshot, req)
	if err != nil {
		return domain.Rate{}, err
	}

	r := domain.Rate{Request: req, Value: value, Date: snapshot.Date, Source: domain.SourceECB}
	s.cacheIfCurrent(ctx, r, generation)
	return r, nil
}

// identityRate is 1 whatever the snapshot holds. It is dated by the current
// snapshot, or today when none is loaded yet.
func (s *Service) identityRate(req domain.QuoteRequest) domain.Rate {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if snapshot, _ := s.loaded(); !snapshot.IsEmpty() {
		date = snapshot.Date
	}
	return domain.Rate{Request: req, Value: decimal.NewFromInt(1), Date: date, Source: domain.SourceECB}
}

// cacheIfCurrent stores r only while the snapshot it was computed from is
// still current. Holding the read lock keeps Refresh from swapping the
// snapshot in between, so a stale rate can not outlive the cache clear.
func (s *Service) cacheIfCurrent(ctx context.Context, r domain.Rate, generation uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation != generation {
		return
	}
	s.cache.Set(ctx, r)
}

// Convert multiplies amount by the rate for req.
func (s *Service) Convert(ctx context.Context, req domain.QuoteRequest, amount decimal.Decimal) (domain.Conversion, error) {
	if err := checkAmount(amount); err != nil {
		return domain.Conversion{}, err
	}
	r, err := s.Lookup(ctx, req)
	if err != nil {
		return domain.Conversion{}, err
	}
	return domain.Conversion{
		Rate:      r,
		Amount:    amount,
		Converted: amount.Mul(r.Value).Round(ratePrecision),
	}, nil
}

func checkAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if amount.IsZero() {
		return nil
	}
	exp := int64(amount.Exponent())
	if int64(amount.NumDigits())+exp > maxAmountIntegerDigits {
		return ErrAmountTooLarge
	}
	if exp < -maxAmountScale {
		return ErrAmountTooPrecise
	}
	return nil
}

// Refresh downloads the latest reference rates, stores them and makes them
// current. Cached rates are dropped. A snapshot older than the current one is
// ignored.
func (s *Service) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRefresh(time.Since(start), err) }()

	fetched, err := s.client.FetchDaily(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch reference rates: %w", err)
	}

	s.mu.Lock()
	current := s.snapshot
	stale := !current.IsEmpty() && fetched.Date.Before(current.Date)
	if !stale {
		s.snapshot = fetched
		s.generation++
	}
	s.mu.Unlock()

	if stale {
		logrus.WithFields(logrus.Fields{
			"fetched": fetched.Date.Format(time.DateOnly),
			"current": current.Date.Format(time.DateOnly),
		}).Warn("Fetched reference rates are older than current ones, ignoring")
		return nil
	}

	s.cache.Clear(ctx)

	if err = s.repo.SaveSnapshot(ctx, fetched); err != nil {
		return fmt.Errorf("failed to persist reference rates: %w", err)
	}
	return nil
}

// currentSnapshot returns the in-memory snapshot, loading it from the
// repository or the ECB on first use.
func (s *Service) currentSnapshot(ctx context.Context) (domain.Snapshot, uint64, error) {
	if snapshot, generation := s.loaded(); !snapshot.IsEmpty() {
		return snapshot, generation, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if snapshot, generation := s.loaded(); !snapshot.IsEmpty() {
		return snapshot, generation, nil
	}

	stored, err := s.repo.LatestSnapshot(ctx)
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a concurrent Refresh may have won the race
		if s.snapshot.IsEmpty() {
			s.snapshot = stored
			s.generation++
		}
		return s.snapshot, s.generation, nil
	}
	if !errors.Is(err, domain.ErrSnapshotUnavailable) {
		logrus.WithError(err).Warn("Failed to load stored reference rates, falling back to ECB")
	}

	err = s.Refresh(ctx)
	snapshot, generation := s.loaded()
	if err != nil {
		// rates fetched but not persisted are still usable
		if !snapshot.IsEmpty() {
			logrus.WithError(err).Warn("Using reference rates that were not persisted")
			return snapshot, generation, nil
		}
		return domain.Snapshot{}, 0, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}
	return snapshot, generation, nil
}

func (s *Service) loaded() (domain.Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.generation
}

func crossRate(snapshot domain.Snapshot, req domain.QuoteRequest) (decimal.Decimal, error) {
	base, quote := req.BaseCurrency(), req.QuoteCurrency()
	basePerEUR, ok := snapshot.PerEUR(base)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no reference rate for %s", domain.ErrRateNotFound, base)
	}
	quotePerEUR, ok := snapshot.PerEUR(quote)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no reference rate for %s", domain.ErrRateNotFound, quote)
	}
	return quotePerEUR.DivRound(basePerEUR, ratePrecision), nil
}

func lookupResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case IsInvalid(err):
		return metrics.ResultInvalid
	case errors.Is(err, domain.ErrRateNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultError
	}
}

// IsInvalid reports whether err was caused by a malformed or unsupported request.
func IsInvalid(err error) bool {
	return errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, ErrBaseInvalid) ||
		errors.Is(err, ErrQuoteInvalid) ||
		errors.Is(err, ErrBaseUnsupported) ||
		errors.Is(err, ErrQuoteUnsupported) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountTooLarge) ||
		errors.Is(err, ErrAmountTooPrecise)
}

func NewService(validator *CurrencyValidator, client adapters.RateClient, repo adapters.SnapshotRepository, cache adapters.RateCache, m *metrics.Metrics) *Service {
	return &Service{validator: validator, client: client, repo: repo, cache: cache, metrics: m}
}
