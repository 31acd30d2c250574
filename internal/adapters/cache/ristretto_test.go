package cache

import (
	"context"
	"testing"
	"time"

	"ecbrates/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleRate(base, quote, value string) domain.Rate {
	return domain.Rate{
		Request: domain.NewQuoteRequest(domain.Currency(base), domain.Currency(quote)),
		Value:   decimal.RequireFromString(value),
		Date:    time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Source:  "ECB",
	}
}

func TestRistrettoRateCache_SetAndGet(t *testing.T) {
	c, err := NewRistrettoRateCache(128, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	r := sampleRate("USD", "EUR", "0.968898")
	c.Set(ctx, r)
	c.cache.Wait()

	got, ok := c.Get(ctx, domain.NewQuoteRequest("USD", "EUR"))
	require.True(t, ok)
	require.True(t, got.Request.Equal(r.Request))
	require.True(t, got.Value.Equal(r.Value))
	require.Equal(t, r.Date, got.Date)
}

func TestRistrettoRateCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewRistrettoRateCache(64, 0)
	require.NoError(t, err)
	defer c.Close()

	r, ok := c.Get(context.Background(), domain.NewQuoteRequest("EUR", "USD"))
	require.False(t, ok)
	require.Equal(t, domain.Rate{}, r)
}

func TestRistrettoRateCache_DirectionMatters(t *testing.T) {
	c, err := NewRistrettoRateCache(64, 0)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, sampleRate("EUR", "USD", "1.0321"))
	c.cache.Wait()

	_, ok := c.Get(ctx, domain.NewQuoteRequest("USD", "EUR"))
	require.False(t, ok)
}

func TestRistrettoRateCache_Clear(t *testing.T) {
	c, err := NewRistrettoRateCache(256, 0)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, sampleRate("USD", "EUR", "0.97"))
	c.Set(ctx, sampleRate("EUR", "JPY", "162.94"))
	c.cache.Wait()

	c.Clear(ctx)

	_, ok := c.Get(ctx, domain.NewQuoteRequest("USD", "EUR"))
	require.False(t, ok)
	_, ok = c.Get(ctx, domain.NewQuoteRequest("EUR", "JPY"))
	require.False(t, ok)
}
