package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
	"go.uber.org/zap"
)

const (
	fearGreedCacheKey = "fear_and_greed"

	// The index updates once a day; an hour of caching is plenty.
	FearGreedTTL = time.Hour
)

// SentimentService serves the daily Fear & Greed index with its
// day-over-day change.
type SentimentService struct {
	source domain.SentimentSource
	cache  domain.Cache
	logger *zap.Logger
	mu     sync.Mutex
}

func NewSentimentService(source domain.SentimentSource, cache domain.Cache, logger *zap.Logger) *SentimentService {
	return &SentimentService{source: source, cache: cache, logger: logger}
}

// GetFearGreed returns today's index. The change is computed against
// yesterday's value and is 0 when only one day of data exists or
// yesterday's value is zero. Failures degrade to the cached index or a
// neutral default.
func (s *SentimentService) GetFearGreed(ctx context.Context) *domain.FearGreedIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, found, fresh := s.cache.Get(fearGreedCacheKey); found && fresh {
		return v.(*domain.FearGreedIndex)
	}

	points, err := s.source.GetFearGreed(ctx, 2)
	if err != nil {
		s.logger.Warn("Fear/greed refresh failed, serving cached fallback", zap.Error(err))
		if v, found, _ := s.cache.Get(fearGreedCacheKey); found {
			return v.(*domain.FearGreedIndex)
		}
		return neutralFearGreed()
	}

	var index *domain.FearGreedIndex
	switch {
	case len(points) >= 2:
		change := 0.0
		if points[1].Value != 0 {
			change = float64(points[0].Value-points[1].Value) / float64(points[1].Value) * 100
		}
		index = &domain.FearGreedIndex{
			Value:          points[0].Value,
			Classification: points[0].Classification,
			Change24h:      change,
		}
	case len(points) == 1:
		index = &domain.FearGreedIndex{
			Value:          points[0].Value,
			Classification: points[0].Classification,
		}
	default:
		index = neutralFearGreed()
	}

	s.cache.Set(fearGreedCacheKey, index, FearGreedTTL)
	return index
}

func neutralFearGreed() *domain.FearGreedIndex {
	return &domain.FearGreedIndex{Value: 50, Classification: "Neutral"}
}
