package domain

import (
	"context"
	"time"
)

// MarketDataSource defines the read-only upstream market data feeds.
type MarketDataSource interface {
	GetTickers24h(ctx context.Context) ([]Ticker, error)
	GetTicker24h(ctx context.Context, symbol string) (*Ticker, error)
	GetPremiumIndex(ctx context.Context) ([]FundingInfo, error)
	GetFundingIntervals(ctx context.Context) (map[string]int, error)
	GetDailyKlines(ctx context.Context, symbol string, limit int) ([]Kline, error)
	GetLongShortRatio(ctx context.Context, symbol string) (*LongShortRatio, error)
}

// SentimentSource defines the daily sentiment index feed.
// Points are returned newest first; limit caps the number of days.
type SentimentSource interface {
	GetFearGreed(ctx context.Context, limit int) ([]FearGreedPoint, error)
}

// Cache is a keyed store with per-entry TTL. Get reports both presence and
// freshness: a stale entry is still returned (found=true, fresh=false) so
// callers can fall back to it when the upstream fails. Entries are never
// evicted on expiry.
type Cache interface {
	Get(key string) (value interface{}, found bool, fresh bool)
	Set(key string, value interface{}, ttl time.Duration)
}
