package domain

import "time"

// Ticker is one row of the 24h futures ticker resource.
type Ticker struct {
	Symbol             string  `json:"symbol"`
	LastPrice          float64 `json:"last_price"`
	PriceChangePercent float64 `json:"price_change_percent"`
	HighPrice          float64 `json:"high_price"`
	LowPrice           float64 `json:"low_price"`
	QuoteVolume        float64 `json:"quote_volume"`
	TradeCount         int64   `json:"trade_count"`
}

// FundingInfo is one row of the premium/funding index resource.
// NextFundingTime is epoch milliseconds; 0 means the contract has no
// active funding schedule.
type FundingInfo struct {
	Symbol          string  `json:"symbol"`
	LastFundingRate float64 `json:"last_funding_rate"`
	NextFundingTime int64   `json:"next_funding_time"`
	MarkPrice       float64 `json:"mark_price"`
	IndexPrice      float64 `json:"index_price"`
}

// LongShortRatio is the accounts long/short ratio for one symbol.
// Long and Short are percentages (0-100).
type LongShortRatio struct {
	Ratio float64 `json:"ratio"`
	Long  float64 `json:"long"`
	Short float64 `json:"short"`
}

// Kline is one candle. QuoteVolume is the quote-asset turnover.
type Kline struct {
	OpenTime    int64   `json:"open_time"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	QuoteVolume float64 `json:"quote_volume"`
}

// AggregatedSymbol is the join of ticker, funding, interval and long/short
// data for one symbol. JSON tags match the dashboard wire format.
type AggregatedSymbol struct {
	Rank            int            `json:"rank"`
	Symbol          string         `json:"symbol"` // display form, e.g. BTC/USDT
	Price           float64        `json:"price"`
	Change24h       float64        `json:"change24h"`
	High24h         float64        `json:"high24h"`
	Low24h          float64        `json:"low24h"`
	Volume24h       float64        `json:"volume24h"`
	Trades          int64          `json:"trades"`
	FundingRate     float64        `json:"fundingRate"`
	NextFundingTime int64          `json:"nextFundingTime"`
	FundingInterval int            `json:"fundingInterval"`
	LSRatio         LongShortRatio `json:"lsRatio"`
}

// MarketSnapshot is one complete aggregated view of all eligible symbols.
// Main holds symbols with a non-zero funding rate, Other the exactly-zero
// ones. Both are sorted descending by 24h change with 1-based ranks.
type MarketSnapshot struct {
	Main         []AggregatedSymbol `json:"data"`
	Other        []AggregatedSymbol `json:"other"`
	TotalVolume  float64            `json:"total_volume"`
	VolumeChange float64            `json:"volume_change"`
	FetchedAt    time.Time          `json:"-"`
}

// EmptySnapshot is the typed default returned on a cold cache when the
// upstream cycle fails: valid, empty lists, zero volumes.
func EmptySnapshot() *MarketSnapshot {
	return &MarketSnapshot{
		Main:  []AggregatedSymbol{},
		Other: []AggregatedSymbol{},
	}
}

// FundingRateRow is one row of the top-funding-rates view.
type FundingRateRow struct {
	Rank            int     `json:"rank"`
	Symbol          string  `json:"symbol"`
	MarkPrice       float64 `json:"markPrice"`
	IndexPrice      float64 `json:"indexPrice"`
	FundingRate     float64 `json:"fundingRate"`
	NextFundingTime int64   `json:"nextFundingTime"`
}

// FearGreedIndex is the daily sentiment index with its day-over-day delta.
type FearGreedIndex struct {
	Value          int     `json:"value"`
	Classification string  `json:"classification"`
	Change24h      float64 `json:"change24h"`
}

// FearGreedPoint is one day of raw sentiment data, newest first upstream.
type FearGreedPoint struct {
	Value          int    `json:"value"`
	Classification string `json:"classification"`
}

// ReferencePrice is the price/change pair for one reference symbol.
type ReferencePrice struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

// GridBacktestRow is the heuristic APR projection for one whitelisted asset.
type GridBacktestRow struct {
	Rank       int     `json:"rank"`
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	Change24h  float64 `json:"change24h"`
	LongAPR    float64 `json:"long_apr"`
	ShortAPR   float64 `json:"short_apr"`
}
