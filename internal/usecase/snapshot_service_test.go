package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/market_dashboard/internal/domain"
	"github.com/vitos/market_dashboard/internal/infrastructure/cache"
	"go.uber.org/zap"
)

func fundingAt(symbol string, rate float64, next int64) domain.FundingInfo {
	return domain.FundingInfo{Symbol: symbol, LastFundingRate: rate, NextFundingTime: next}
}

func TestGetMarketSnapshotFiltersAndJoins(t *testing.T) {
	src := &mockSource{
		tickers: []domain.Ticker{
			{Symbol: "BTCUSDT", LastPrice: 64000, PriceChangePercent: 2.5, HighPrice: 65000, LowPrice: 62000, QuoteVolume: 2_000_000, TradeCount: 1200},
			{Symbol: "ETHUSDT", LastPrice: 3200, PriceChangePercent: 1.1, QuoteVolume: 500_000},   // below liquidity floor
			{Symbol: "DOGEUSDT", LastPrice: 0.15, PriceChangePercent: 3.0, QuoteVolume: 1_000_000}, // exactly at floor, still excluded
			{Symbol: "SOLUSDT", LastPrice: 145, PriceChangePercent: 4.0, QuoteVolume: 3_000_000},   // no funding schedule
			{Symbol: "ETHBTC", LastPrice: 0.05, PriceChangePercent: 9.0, QuoteVolume: 5_000_000},   // wrong quote asset
		},
		funding: []domain.FundingInfo{
			fundingAt("BTCUSDT", 0.0001, 1_700_000_000_000),
			fundingAt("ETHUSDT", 0.0001, 1_700_000_000_000),
			fundingAt("DOGEUSDT", 0.0001, 1_700_000_000_000),
			fundingAt("SOLUSDT", 0.0002, 0),
		},
		intervals: map[string]int{"BTCUSDT": 4},
		klines: []domain.Kline{
			{QuoteVolume: 100},
			{QuoteVolume: 150},
		},
		ratios: map[string]domain.LongShortRatio{
			"BTCUSDT": {Ratio: 1.5, Long: 60, Short: 40},
		},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 1)
	assert.Empty(t, snap.Other)

	row := snap.Main[0]
	assert.Equal(t, 1, row.Rank)
	assert.Equal(t, "BTC/USDT", row.Symbol)
	assert.Equal(t, 64000.0, row.Price)
	assert.Equal(t, 2.5, row.Change24h)
	assert.Equal(t, 0.0001, row.FundingRate)
	assert.Equal(t, int64(1_700_000_000_000), row.NextFundingTime)
	assert.Equal(t, 4, row.FundingInterval)
	assert.Equal(t, 1.5, row.LSRatio.Ratio)
	assert.Equal(t, 60.0, row.LSRatio.Long)

	assert.Equal(t, 2_000_000.0, snap.TotalVolume)
	assert.InDelta(t, 50.0, snap.VolumeChange, 1e-9)
}

func TestGetMarketSnapshotClassifiesZeroRateAsOther(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{
			{Symbol: "AUSDT", PriceChangePercent: 1, QuoteVolume: 2_000_000},
			{Symbol: "BUSDT", PriceChangePercent: 2, QuoteVolume: 2_000_000},
			{Symbol: "CUSDT", PriceChangePercent: 3, QuoteVolume: 2_000_000},
			{Symbol: "DUSDT", PriceChangePercent: 4, QuoteVolume: 2_000_000},
		},
		funding: []domain.FundingInfo{
			fundingAt("AUSDT", 0.0001, next),
			fundingAt("BUSDT", 0.0, next),
			fundingAt("CUSDT", -0.0002, next),
			fundingAt("DUSDT", 0.0, next),
		},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 2)
	require.Len(t, snap.Other, 2)
	assert.Equal(t, "C/USDT", snap.Main[0].Symbol) // change 3 beats change 1
	assert.Equal(t, "A/USDT", snap.Main[1].Symbol)
	assert.Equal(t, "D/USDT", snap.Other[0].Symbol)
	assert.Equal(t, "B/USDT", snap.Other[1].Symbol)
	// Default interval applies when the symbol has no funding info entry.
	assert.Equal(t, DefaultFundingIntervalHours, snap.Main[0].FundingInterval)
}

func TestGetMarketSnapshotZeroIntervalGetsDefault(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{{Symbol: "TRBUSDT", QuoteVolume: 2_000_000}},
		funding: []domain.FundingInfo{fundingAt("TRBUSDT", 0.0001, next)},
		// An interval row without the hours field decodes to 0.
		intervals: map[string]int{"TRBUSDT": 0},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 1)
	assert.Equal(t, DefaultFundingIntervalHours, snap.Main[0].FundingInterval)
}

func TestGetMarketSnapshotSortIsStableOnTies(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{
			{Symbol: "FIRSTUSDT", PriceChangePercent: 2.0, QuoteVolume: 2_000_000},
			{Symbol: "SECONDUSDT", PriceChangePercent: 2.0, QuoteVolume: 2_000_000},
			{Symbol: "TOPUSDT", PriceChangePercent: 5.0, QuoteVolume: 2_000_000},
		},
		funding: []domain.FundingInfo{
			fundingAt("FIRSTUSDT", 0.0001, next),
			fundingAt("SECONDUSDT", 0.0001, next),
			fundingAt("TOPUSDT", 0.0001, next),
		},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 3)
	assert.Equal(t, "TOP/USDT", snap.Main[0].Symbol)
	assert.Equal(t, "FIRST/USDT", snap.Main[1].Symbol)
	assert.Equal(t, "SECOND/USDT", snap.Main[2].Symbol)
	assert.Equal(t, []int{1, 2, 3}, []int{snap.Main[0].Rank, snap.Main[1].Rank, snap.Main[2].Rank})
}

func TestGetMarketSnapshotServedFromCacheWithinTTL(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 2_000_000}},
		funding: []domain.FundingInfo{fundingAt("BTCUSDT", 0.0001, next)},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	first := svc.GetMarketSnapshot(context.Background())
	second := svc.GetMarketSnapshot(context.Background())

	assert.Equal(t, 1, src.callCount("GetTickers24h"))
	assert.Equal(t, 1, src.callCount("GetPremiumIndex"))
	assert.Equal(t, 1, src.callCount("GetDailyKlines"))
	assert.Same(t, first, second)
}

func TestGetMarketSnapshotStaleFallbackOnError(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 2_000_000}},
		funding: []domain.FundingInfo{fundingAt("BTCUSDT", 0.0001, next)},
	}
	store := newFakeCache()
	svc := NewSnapshotService(src, store, zap.NewNop())

	first := svc.GetMarketSnapshot(context.Background())
	require.Len(t, first.Main, 1)

	store.markStale(SnapshotCacheKey)
	src.setTickersErr(errors.New("upstream down"))

	second := svc.GetMarketSnapshot(context.Background())
	assert.Same(t, first, second)
}

func TestGetMarketSnapshotColdCacheErrorReturnsEmpty(t *testing.T) {
	src := &mockSource{tickersErr: errors.New("upstream down")}
	svc := NewSnapshotService(src, newFakeCache(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.NotNil(t, snap)
	assert.Empty(t, snap.Main)
	assert.Empty(t, snap.Other)
	assert.Zero(t, snap.TotalVolume)
}

func TestGetMarketSnapshotAnyFeedErrorFailsCycle(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers:    []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 2_000_000}},
		funding:    []domain.FundingInfo{fundingAt("BTCUSDT", 0.0001, next)},
		fundingErr: errors.New("premium index 502"),
	}
	svc := NewSnapshotService(src, newFakeCache(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	assert.Empty(t, snap.Main)
	// The other feeds were still attempted concurrently.
	assert.Equal(t, 1, src.callCount("GetTickers24h"))
	assert.Equal(t, 1, src.callCount("GetDailyKlines"))
}

func TestGetMarketSnapshotSingleFlightOnExpiry(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 2_000_000}},
		funding: []domain.FundingInfo{fundingAt("BTCUSDT", 0.0001, next)},
	}
	store := newFakeCache()
	svc := NewSnapshotService(src, store, zap.NewNop())

	stale := svc.GetMarketSnapshot(context.Background())
	require.Equal(t, 1, src.callCount("GetTickers24h"))
	store.markStale(SnapshotCacheKey)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	src.setTickersHook(func() {
		once.Do(func() { close(started) })
		<-release
	})

	var refresher sync.WaitGroup
	refresher.Add(1)
	go func() {
		defer refresher.Done()
		svc.GetMarketSnapshot(context.Background())
	}()
	<-started

	// While the refresh is in flight, expired-key readers are served the
	// stale snapshot immediately; none of them starts a second cycle.
	var readers sync.WaitGroup
	for i := 0; i < 8; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			assert.Same(t, stale, svc.GetMarketSnapshot(context.Background()))
		}()
	}
	readers.Wait()

	close(release)
	refresher.Wait()

	assert.Equal(t, 2, src.callCount("GetTickers24h"))
}

func TestRatioSentinelReplacesNonFinite(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{
			{Symbol: "INFUSDT", QuoteVolume: 2_000_000},
			{Symbol: "NANUSDT", QuoteVolume: 2_000_000},
		},
		funding: []domain.FundingInfo{
			fundingAt("INFUSDT", 0.0001, next),
			fundingAt("NANUSDT", 0.0001, next),
		},
		ratios: map[string]domain.LongShortRatio{
			"INFUSDT": {Ratio: math.Inf(1), Long: 100, Short: 0},
			"NANUSDT": {Ratio: math.NaN()},
		},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 2)
	for _, row := range snap.Main {
		assert.Equal(t, RatioSentinel, row.LSRatio.Ratio, row.Symbol)
	}
}

func TestRatioFailureOmitsSymbolButKeepsSnapshot(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{
			{Symbol: "OKUSDT", PriceChangePercent: 2, QuoteVolume: 2_000_000},
			{Symbol: "BADUSDT", PriceChangePercent: 1, QuoteVolume: 2_000_000},
		},
		funding: []domain.FundingInfo{
			fundingAt("OKUSDT", 0.0001, next),
			fundingAt("BADUSDT", 0.0001, next),
		},
		ratios:   map[string]domain.LongShortRatio{"OKUSDT": {Ratio: 2.1, Long: 67.7, Short: 32.3}},
		ratioErr: map[string]error{"BADUSDT": errors.New("410 gone")},
	}
	svc := NewSnapshotService(src, cache.NewStore(), zap.NewNop())

	snap := svc.GetMarketSnapshot(context.Background())

	require.Len(t, snap.Main, 2)
	assert.Equal(t, 2.1, snap.Main[0].LSRatio.Ratio)
	assert.Zero(t, snap.Main[1].LSRatio.Ratio)
}

func TestRatioBatchReusedAcrossRefreshes(t *testing.T) {
	next := int64(1_700_000_000_000)
	src := &mockSource{
		tickers: []domain.Ticker{{Symbol: "BTCUSDT", QuoteVolume: 2_000_000}},
		funding: []domain.FundingInfo{fundingAt("BTCUSDT", 0.0001, next)},
		ratios:  map[string]domain.LongShortRatio{"BTCUSDT": {Ratio: 1.2}},
	}
	store := newFakeCache()
	svc := NewSnapshotService(src, store, zap.NewNop())

	svc.GetMarketSnapshot(context.Background())
	require.Equal(t, 1, src.callCount("GetLongShortRatio"))

	// Snapshot expires but the ratio batch keeps its longer TTL.
	store.markStale(SnapshotCacheKey)
	svc.GetMarketSnapshot(context.Background())

	assert.Equal(t, 2, src.callCount("GetTickers24h"))
	assert.Equal(t, 1, src.callCount("GetLongShortRatio"))
}

func TestDisplaySymbol(t *testing.T) {
	assert.Equal(t, "BTC/USDT", DisplaySymbol("BTCUSDT"))
	assert.Equal(t, "1000PEPE/USDT", DisplaySymbol("1000PEPEUSDT"))
	assert.Equal(t, "ETHBTC", DisplaySymbol("ETHBTC"))
}
