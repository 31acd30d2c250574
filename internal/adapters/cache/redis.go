package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ecbrates/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "ecbrates:rate:"

// RedisRateCache shares resolved rates between service instances. Redis
// failures degrade to cache misses.
type RedisRateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type redisRate struct {
	Base   string          `json:"base"`
	Quote  string          `json:"quote"`
	Value  decimal.Decimal `json:"value"`
	Date   time.Time       `json:"date"`
	Source string          `json:"source"`
}

func NewRedisRateCache(rdb *redis.Client, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{rdb: rdb, ttl: ttl}
}

func (c *RedisRateCache) Get(ctx context.Context, req domain.QuoteRequest) (domain.Rate, bool) {
	raw, err := c.rdb.Get(ctx, redisKeyPrefix+req.Key()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("pair", req.Key()).Warn("redis cache get failed")
		}
		return domain.Rate{}, false
	}

	var cached redisRate
	if err = json.Unmarshal(raw, &cached); err != nil {
		logrus.WithError(err).WithField("pair", req.Key()).Warn("redis cache entry is corrupted")
		return domain.Rate{}, false
	}
	return domain.Rate{
		Request: domain.NewQuoteRequest(domain.Currency(cached.Base), domain.Currency(cached.Quote)),
		Value:   cached.Value,
		Date:    cached.Date,
		Source:  cached.Source,
	}, true
}

func (c *RedisRateCache) Set(ctx context.Context, r domain.Rate) {
	payload, err := json.Marshal(redisRate{
		Base:   string(r.Request.BaseCurrency()),
		Quote:  string(r.Request.QuoteCurrency()),
		Value:  r.Value,
		Date:   r.Date,
		Source: r.Source,
	})
	if err != nil {
		logrus.WithError(err).WithField("pair", r.Request.Key()).Warn("redis cache marshal failed")
		return
	}
	if err = c.rdb.Set(ctx, redisKeyPrefix+r.Request.Key(), payload, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("pair", r.Request.Key()).Warn("redis cache set failed")
	}
}

// Clear removes every cached rate, leaving unrelated keys alone.
func (c *RedisRateCache) Clear(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	keys := make([]string, 0, 64)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("redis cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("redis cache clear failed")
	}
}
