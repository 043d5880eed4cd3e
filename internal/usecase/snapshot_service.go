package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
	"go.uber.org/zap"
)

const (
	QuoteSuffix   = "USDT"
	ReferencePair = "BTCUSDT"

	// Symbols with 24h quote volume at or below this never enter the snapshot.
	LiquidityFloor = 1_000_000.0

	// Replaces a non-finite long/short ratio before it is stored.
	RatioSentinel = 9999.0

	// At most this many long/short requests in flight at once.
	RatioBatchConcurrency = 20

	DefaultFundingIntervalHours = 8

	SnapshotTTL   = 10 * time.Second
	RatioBatchTTL = 5 * time.Minute

	SnapshotCacheKey   = "market_snapshot"
	ratioBatchCacheKey = "ls_ratio_batch"
)

// SnapshotService builds the aggregated market snapshot: four upstream
// resources fetched concurrently, joined by symbol, filtered, classified
// and ranked. Results are cached; a failed refresh degrades to the last
// cached snapshot, so callers never see an error on this path.
type SnapshotService struct {
	source  domain.MarketDataSource
	cache   domain.Cache
	logger  *zap.Logger
	mu      sync.Mutex // serializes snapshot check-then-populate
	ratioMu sync.Mutex // serializes ratio batch check-then-populate
	timeNow func() time.Time
}

func NewSnapshotService(source domain.MarketDataSource, cache domain.Cache, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		source:  source,
		cache:   cache,
		logger:  logger,
		timeNow: time.Now,
	}
}

// GetMarketSnapshot returns the current snapshot, refreshing it when the
// cached one has expired. If another caller is already refreshing, the
// last cached value is served immediately instead of waiting; the per-key
// lock keeps concurrent expiry observations from issuing duplicate
// upstream cycles.
func (s *SnapshotService) GetMarketSnapshot(ctx context.Context) *domain.MarketSnapshot {
	cached, found, fresh := s.cache.Get(SnapshotCacheKey)
	if found && fresh {
		return cached.(*domain.MarketSnapshot)
	}

	if !s.mu.TryLock() {
		if found {
			// Refresh in progress; stale is acceptable.
			return cached.(*domain.MarketSnapshot)
		}
		// Cold cache: wait for the in-flight refresh to settle.
		s.mu.Lock()
		defer s.mu.Unlock()
		if v, ok, _ := s.cache.Get(SnapshotCacheKey); ok {
			return v.(*domain.MarketSnapshot)
		}
		return domain.EmptySnapshot()
	}
	defer s.mu.Unlock()

	// Re-check: the previous holder may have repopulated the key.
	if v, ok, f := s.cache.Get(SnapshotCacheKey); ok && f {
		return v.(*domain.MarketSnapshot)
	}

	snap, err := s.refresh(ctx)
	if err != nil {
		s.logger.Warn("Snapshot refresh failed, serving cached fallback", zap.Error(err))
		if v, ok, _ := s.cache.Get(SnapshotCacheKey); ok {
			return v.(*domain.MarketSnapshot)
		}
		return domain.EmptySnapshot()
	}
	return snap
}

// refresh runs one full aggregation cycle and caches the result.
func (s *SnapshotService) refresh(ctx context.Context) (*domain.MarketSnapshot, error) {
	var (
		tickers   []domain.Ticker
		funding   []domain.FundingInfo
		intervals map[string]int
		klines    []domain.Kline

		tickersErr, fundingErr, intervalsErr, klinesErr error
	)

	// The four feeds are independent; fetch them together and join after
	// all have settled.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		tickers, tickersErr = s.source.GetTickers24h(ctx)
	}()
	go func() {
		defer wg.Done()
		funding, fundingErr = s.source.GetPremiumIndex(ctx)
	}()
	go func() {
		defer wg.Done()
		intervals, intervalsErr = s.source.GetFundingIntervals(ctx)
	}()
	go func() {
		defer wg.Done()
		klines, klinesErr = s.source.GetDailyKlines(ctx, ReferencePair, 2)
	}()
	wg.Wait()

	for _, err := range []error{tickersErr, fundingErr, intervalsErr, klinesErr} {
		if err != nil {
			return nil, err
		}
	}

	// Volume change proxy from the reference pair's two most recent daily
	// quote volumes. klines come back oldest first.
	volumeChange := 0.0
	if len(klines) >= 2 {
		yesterday := klines[0].QuoteVolume
		today := klines[1].QuoteVolume
		if yesterday > 0 {
			volumeChange = (today - yesterday) / yesterday * 100
		}
	}

	fundingBySymbol := make(map[string]domain.FundingInfo, len(funding))
	for _, f := range funding {
		if f.Symbol != "" {
			fundingBySymbol[f.Symbol] = f
		}
	}

	// Eligibility: quote suffix, liquidity floor, live funding schedule.
	// A zero funding rate classifies the symbol into the "other" list.
	var mainTickers, otherTickers []domain.Ticker
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, QuoteSuffix) || t.QuoteVolume <= LiquidityFloor {
			continue
		}
		f, ok := fundingBySymbol[t.Symbol]
		if !ok || f.NextFundingTime <= 0 {
			continue
		}
		if f.LastFundingRate == 0.0 {
			otherTickers = append(otherTickers, t)
		} else {
			mainTickers = append(mainTickers, t)
		}
	}

	// Ties keep upstream order.
	sort.SliceStable(mainTickers, func(i, j int) bool {
		return mainTickers[i].PriceChangePercent > mainTickers[j].PriceChangePercent
	})
	sort.SliceStable(otherTickers, func(i, j int) bool {
		return otherTickers[i].PriceChangePercent > otherTickers[j].PriceChangePercent
	})

	symbols := make([]string, 0, len(mainTickers)+len(otherTickers))
	for _, t := range mainTickers {
		symbols = append(symbols, t.Symbol)
	}
	for _, t := range otherTickers {
		symbols = append(symbols, t.Symbol)
	}
	ratios := s.getRatioBatch(ctx, symbols)

	totalVolume := 0.0
	for _, t := range mainTickers {
		totalVolume += t.QuoteVolume
	}
	for _, t := range otherTickers {
		totalVolume += t.QuoteVolume
	}

	snap := &domain.MarketSnapshot{
		Main:         s.joinRows(mainTickers, fundingBySymbol, intervals, ratios),
		Other:        s.joinRows(otherTickers, fundingBySymbol, intervals, ratios),
		TotalVolume:  totalVolume,
		VolumeChange: volumeChange,
		FetchedAt:    s.timeNow(),
	}
	s.cache.Set(SnapshotCacheKey, snap, SnapshotTTL)
	return snap, nil
}

// joinRows merges sorted tickers with their funding record, interval and
// long/short ratio, assigning 1-based ranks within the list.
func (s *SnapshotService) joinRows(
	tickers []domain.Ticker,
	funding map[string]domain.FundingInfo,
	intervals map[string]int,
	ratios map[string]domain.LongShortRatio,
) []domain.AggregatedSymbol {
	rows := make([]domain.AggregatedSymbol, 0, len(tickers))
	for i, t := range tickers {
		f := funding[t.Symbol]

		// A missing entry and an entry without the hours field both mean
		// the default schedule.
		interval := intervals[t.Symbol]
		if interval == 0 {
			interval = DefaultFundingIntervalHours
		}

		// Symbols without a batch result get a zero-valued default.
		ratio := ratios[t.Symbol]

		rows = append(rows, domain.AggregatedSymbol{
			Rank:            i + 1,
			Symbol:          DisplaySymbol(t.Symbol),
			Price:           t.LastPrice,
			Change24h:       t.PriceChangePercent,
			High24h:         t.HighPrice,
			Low24h:          t.LowPrice,
			Volume24h:       t.QuoteVolume,
			Trades:          t.TradeCount,
			FundingRate:     f.LastFundingRate,
			NextFundingTime: f.NextFundingTime,
			FundingInterval: interval,
			LSRatio:         ratio,
		})
	}
	return rows
}

// getRatioBatch returns the long/short ratios for symbols, serving the
// whole batch from cache when fresh. A cache hit short-circuits every
// per-symbol request.
func (s *SnapshotService) getRatioBatch(ctx context.Context, symbols []string) map[string]domain.LongShortRatio {
	s.ratioMu.Lock()
	defer s.ratioMu.Unlock()

	if v, found, fresh := s.cache.Get(ratioBatchCacheKey); found && fresh {
		return v.(map[string]domain.LongShortRatio)
	}

	result := s.fetchRatioBatch(ctx, symbols)
	if len(result) > 0 {
		s.cache.Set(ratioBatchCacheKey, result, RatioBatchTTL)
	}
	return result
}

// fetchRatioBatch issues one request per symbol under the concurrency cap.
// Per-symbol failures are counted and the symbol omitted; they never fail
// the batch.
func (s *SnapshotService) fetchRatioBatch(ctx context.Context, symbols []string) map[string]domain.LongShortRatio {
	result := make(map[string]domain.LongShortRatio, len(symbols))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	sem := make(chan struct{}, RatioBatchConcurrency)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ratio, err := s.source.GetLongShortRatio(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			if math.IsInf(ratio.Ratio, 0) || math.IsNaN(ratio.Ratio) {
				ratio.Ratio = RatioSentinel
			}
			result[symbol] = *ratio
		}(symbol)
	}
	wg.Wait()

	if failures > 0 {
		s.logger.Debug("Long/short batch finished with per-symbol failures",
			zap.Int("failed", failures),
			zap.Int("requested", len(symbols)))
	}
	return result
}

// DisplaySymbol inserts the quote-asset separator: BTCUSDT -> BTC/USDT.
func DisplaySymbol(symbol string) string {
	if base, ok := strings.CutSuffix(symbol, QuoteSuffix); ok {
		return base + "/" + QuoteSuffix
	}
	return symbol
}
