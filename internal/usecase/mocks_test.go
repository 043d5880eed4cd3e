package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
)

// mockSource is a scriptable MarketDataSource that counts calls per method.
type mockSource struct {
	mu sync.Mutex

	tickers    []domain.Ticker
	tickersErr error

	tickerBySymbol map[string]domain.Ticker
	tickerErr      error

	funding    []domain.FundingInfo
	fundingErr error

	intervals    map[string]int
	intervalsErr error

	klines    []domain.Kline
	klinesErr error

	ratios   map[string]domain.LongShortRatio
	ratioErr map[string]error

	// Runs inside GetTickers24h, outside the mutex; lets tests hold a
	// refresh in flight.
	tickersHook func()

	calls map[string]int
}

func (m *mockSource) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *mockSource) callCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *mockSource) setTickersErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickersErr = err
}

func (m *mockSource) setFundingErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fundingErr = err
}

func (m *mockSource) setTickersHook(hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickersHook = hook
}

func (m *mockSource) GetTickers24h(ctx context.Context) ([]domain.Ticker, error) {
	m.count("GetTickers24h")
	m.mu.Lock()
	hook := m.tickersHook
	tickers, err := m.tickers, m.tickersErr
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return tickers, err
}

func (m *mockSource) GetTicker24h(ctx context.Context, symbol string) (*domain.Ticker, error) {
	m.count("GetTicker24h")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tickerErr != nil {
		return nil, m.tickerErr
	}
	t, ok := m.tickerBySymbol[symbol]
	if !ok {
		return &domain.Ticker{Symbol: symbol}, nil
	}
	return &t, nil
}

func (m *mockSource) GetPremiumIndex(ctx context.Context) ([]domain.FundingInfo, error) {
	m.count("GetPremiumIndex")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.funding, m.fundingErr
}

func (m *mockSource) GetFundingIntervals(ctx context.Context) (map[string]int, error) {
	m.count("GetFundingIntervals")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intervals, m.intervalsErr
}

func (m *mockSource) GetDailyKlines(ctx context.Context, symbol string, limit int) ([]domain.Kline, error) {
	m.count("GetDailyKlines")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.klines, m.klinesErr
}

func (m *mockSource) GetLongShortRatio(ctx context.Context, symbol string) (*domain.LongShortRatio, error) {
	m.count("GetLongShortRatio")
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ratioErr[symbol]; ok {
		return nil, err
	}
	r, ok := m.ratios[symbol]
	if !ok {
		return &domain.LongShortRatio{Ratio: 1.0, Long: 50, Short: 50}, nil
	}
	return &r, nil
}

// mockSentiment is a scriptable SentimentSource.
type mockSentiment struct {
	mu     sync.Mutex
	points []domain.FearGreedPoint
	err    error
	calls  int
}

func (m *mockSentiment) GetFearGreed(ctx context.Context, limit int) ([]domain.FearGreedPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.points) {
		return m.points[:limit], nil
	}
	return m.points, nil
}

func (m *mockSentiment) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockSentiment) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeCache implements domain.Cache with explicit freshness control so
// tests can force expiry without a clock.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]interface{}
	stale  map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string]interface{}),
		stale:  make(map[string]bool),
	}
}

func (c *fakeCache) Get(key string) (interface{}, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return nil, false, false
	}
	return v, true, !c.stale[key]
}

func (c *fakeCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.stale[key] = false
}

func (c *fakeCache) markStale(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale[key] = true
}
