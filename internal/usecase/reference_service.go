package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
	"go.uber.org/zap"
)

const ReferencePricesTTL = 10 * time.Second

// ReferenceService serves spot-check prices for a small fixed set of
// reference symbols (the dashboard header tickers).
type ReferenceService struct {
	source domain.MarketDataSource
	cache  domain.Cache
	logger *zap.Logger
	mu     sync.Mutex
}

func NewReferenceService(source domain.MarketDataSource, cache domain.Cache, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{source: source, cache: cache, logger: logger}
}

// GetReferencePrices fetches one 24h ticker per symbol. The whole set is
// cached under a key derived from the symbol list; any failure degrades to
// the cached set or an empty map.
func (s *ReferenceService) GetReferencePrices(ctx context.Context, symbols []string) map[string]domain.ReferencePrice {
	key := "reference_prices:" + strings.Join(symbols, ",")

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, found, fresh := s.cache.Get(key); found && fresh {
		return v.(map[string]domain.ReferencePrice)
	}

	result := make(map[string]domain.ReferencePrice, len(symbols))
	for _, symbol := range symbols {
		t, err := s.source.GetTicker24h(ctx, symbol)
		if err != nil {
			s.logger.Warn("Reference price fetch failed, serving cached fallback",
				zap.String("symbol", symbol), zap.Error(err))
			if v, found, _ := s.cache.Get(key); found {
				return v.(map[string]domain.ReferencePrice)
			}
			return map[string]domain.ReferencePrice{}
		}
		result[symbol] = domain.ReferencePrice{
			Price:  t.LastPrice,
			Change: t.PriceChangePercent,
		}
	}

	s.cache.Set(key, result, ReferencePricesTTL)
	return result
}
