package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/vitos/market_dashboard/internal/domain"
	"go.uber.org/zap"
)

// GridTargetCoins is the fixed whitelist of base assets the grid backtest
// projects APRs for, in display order.
var GridTargetCoins = []string{
	"BTC", "ETH", "XRP", "SOL", "BNB", "DOGE", "ADA", "TON", "TRX", "AVAX",
	"SHIB", "LINK", "DOT", "SUI", "BCH", "UNI", "PEPE", "LTC", "NEAR", "AAVE", "APT",
}

// APR heuristic constants. The formula is a display heuristic, not a real
// backtest; the constants and clamp bounds are kept exact for output
// compatibility.
const (
	aprVolatilityFactor = 12.0
	aprTrendFactor      = 15.0
	aprFloor            = -80.0
	aprCeiling          = 450.0
)

// BacktestService computes the heuristic grid-APR projection for the
// whitelisted assets from their 24h tickers. Independent of the main
// snapshot and uncached; every call fetches the ticker list.
type BacktestService struct {
	source domain.MarketDataSource
	logger *zap.Logger
}

func NewBacktestService(source domain.MarketDataSource, logger *zap.Logger) *BacktestService {
	return &BacktestService{source: source, logger: logger}
}

// GetGridBacktest returns one row per whitelisted asset found on the
// exchange, in whitelist order. Upstream failure degrades to an empty list.
func (s *BacktestService) GetGridBacktest(ctx context.Context) []domain.GridBacktestRow {
	tickers, err := s.source.GetTickers24h(ctx)
	if err != nil {
		s.logger.Warn("Grid backtest fetch failed", zap.Error(err))
		return []domain.GridBacktestRow{}
	}

	order := make(map[string]int, len(GridTargetCoins))
	for i, coin := range GridTargetCoins {
		order[coin] = i
	}

	// Contracts like 1000SHIBUSDT map to the SHIB whitelist entry. When
	// several contracts match one base asset, keep the most liquid one.
	type candidate struct {
		base   string
		ticker domain.Ticker
	}
	best := make(map[string]domain.Ticker)
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, QuoteSuffix) {
			continue
		}
		base := strings.TrimSuffix(t.Symbol, QuoteSuffix)
		base = strings.ReplaceAll(base, "1000", "")
		if _, ok := order[base]; !ok {
			continue
		}
		if current, ok := best[base]; !ok || t.QuoteVolume > current.QuoteVolume {
			best[base] = t
		}
	}

	picked := make([]candidate, 0, len(best))
	for base, t := range best {
		picked = append(picked, candidate{base: base, ticker: t})
	}
	sort.Slice(picked, func(i, j int) bool {
		return order[picked[i].base] < order[picked[j].base]
	})

	rows := make([]domain.GridBacktestRow, 0, len(picked))
	for i, c := range picked {
		t := c.ticker

		volatility := 0.0
		if t.LowPrice > 0 {
			volatility = (t.HighPrice - t.LowPrice) / t.LowPrice * 100
		}

		baseAPR := volatility * aprVolatilityFactor
		longAPR := clamp(baseAPR+t.PriceChangePercent*aprTrendFactor, aprFloor, aprCeiling)
		shortAPR := clamp(baseAPR-t.PriceChangePercent*aprTrendFactor, aprFloor, aprCeiling)

		rows = append(rows, domain.GridBacktestRow{
			Rank:       i + 1,
			Symbol:     DisplaySymbol(t.Symbol),
			Price:      t.LastPrice,
			Volatility: volatility,
			Change24h:  t.PriceChangePercent,
			LongAPR:    longAPR,
			ShortAPR:   shortAPR,
		})
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
