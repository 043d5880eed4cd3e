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
	fundingCacheKey = "binance_funding"
	FundingTTL      = 10 * time.Second
)

// FundingService serves the funding-rate leaderboard: every quoted pair
// from the premium index sorted by absolute funding rate.
type FundingService struct {
	source domain.MarketDataSource
	cache  domain.Cache
	logger *zap.Logger
	mu     sync.Mutex
}

func NewFundingService(source domain.MarketDataSource, cache domain.Cache, logger *zap.Logger) *FundingService {
	return &FundingService{source: source, cache: cache, logger: logger}
}

// GetFundingRatesTop returns the n rows with the largest |funding rate|.
// On upstream failure the last cached rows are returned, or an empty list
// when nothing was ever cached.
func (s *FundingService) GetFundingRatesTop(ctx context.Context, n int) []domain.FundingRateRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, found, fresh := s.cache.Get(fundingCacheKey); found && fresh {
		return topN(v.([]domain.FundingRateRow), n)
	}

	funding, err := s.source.GetPremiumIndex(ctx)
	if err != nil {
		s.logger.Warn("Funding rate refresh failed, serving cached fallback", zap.Error(err))
		if v, found, _ := s.cache.Get(fundingCacheKey); found {
			return topN(v.([]domain.FundingRateRow), n)
		}
		return []domain.FundingRateRow{}
	}

	pairs := make([]domain.FundingInfo, 0, len(funding))
	for _, f := range funding {
		if strings.HasSuffix(f.Symbol, QuoteSuffix) {
			pairs = append(pairs, f)
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].LastFundingRate) > math.Abs(pairs[j].LastFundingRate)
	})

	rows := make([]domain.FundingRateRow, 0, len(pairs))
	for i, f := range pairs {
		rows = append(rows, domain.FundingRateRow{
			Rank:            i + 1,
			Symbol:          DisplaySymbol(f.Symbol),
			MarkPrice:       f.MarkPrice,
			IndexPrice:      f.IndexPrice,
			FundingRate:     f.LastFundingRate,
			NextFundingTime: f.NextFundingTime,
		})
	}

	s.cache.Set(fundingCacheKey, rows, FundingTTL)
	return topN(rows, n)
}

func topN(rows []domain.FundingRateRow, n int) []domain.FundingRateRow {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
