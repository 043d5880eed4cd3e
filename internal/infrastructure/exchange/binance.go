package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
)

const (
	BinanceFuturesBaseURL = "https://fapi.binance.com"

	// One client instance serves a whole fetch cycle; cap the in-flight
	// connections so the batch fetcher cannot exceed the upstream rate limit.
	requestTimeout = 15 * time.Second
	maxConnections = 20
)

// BinanceAdapter reads the public Binance USDT-perpetual market data feeds.
// All calls are unauthenticated GETs; there is no retry, a failed call
// fails the cycle that issued it.
type BinanceAdapter struct {
	baseURL string
	client  *http.Client
}

func NewBinanceAdapter(baseURL string) *BinanceAdapter {
	if baseURL == "" {
		baseURL = BinanceFuturesBaseURL
	}
	return &BinanceAdapter{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     maxConnections,
				MaxIdleConnsPerHost: maxConnections,
			},
		},
	}
}

// getJSON issues a GET with query parameters and decodes the JSON body into
// result, classifying failures into the domain error taxonomy.
func (a *BinanceAdapter) getJSON(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := a.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		kind := domain.UpstreamMalformedPayload
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			kind = domain.UpstreamTimeout
		}
		return &domain.UpstreamError{Kind: kind, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.UpstreamError{
			Kind:     domain.UpstreamBadStatus,
			Endpoint: path,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &domain.UpstreamError{Kind: domain.UpstreamMalformedPayload, Endpoint: path, Err: err}
	}
	return nil
}

// rawTicker matches the 24h ticker wire format (numbers as strings).
type rawTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	QuoteVolume        string `json:"quoteVolume"`
	Count              int64  `json:"count"`
}

func (r rawTicker) toDomain() domain.Ticker {
	t := domain.Ticker{Symbol: r.Symbol, TradeCount: r.Count}
	t.LastPrice, _ = strconv.ParseFloat(r.LastPrice, 64)
	t.PriceChangePercent, _ = strconv.ParseFloat(r.PriceChangePercent, 64)
	t.HighPrice, _ = strconv.ParseFloat(r.HighPrice, 64)
	t.LowPrice, _ = strconv.ParseFloat(r.LowPrice, 64)
	t.QuoteVolume, _ = strconv.ParseFloat(r.QuoteVolume, 64)
	return t
}

func (a *BinanceAdapter) GetTickers24h(ctx context.Context) ([]domain.Ticker, error) {
	var raw []rawTicker
	if err := a.getJSON(ctx, "/fapi/v1/ticker/24hr", nil, &raw); err != nil {
		return nil, err
	}

	tickers := make([]domain.Ticker, 0, len(raw))
	for _, r := range raw {
		tickers = append(tickers, r.toDomain())
	}
	return tickers, nil
}

func (a *BinanceAdapter) GetTicker24h(ctx context.Context, symbol string) (*domain.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var raw rawTicker
	if err := a.getJSON(ctx, "/fapi/v1/ticker/24hr", params, &raw); err != nil {
		return nil, err
	}

	t := raw.toDomain()
	return &t, nil
}

func (a *BinanceAdapter) GetPremiumIndex(ctx context.Context) ([]domain.FundingInfo, error) {
	var raw []struct {
		Symbol          string `json:"symbol"`
		MarkPrice       string `json:"markPrice"`
		IndexPrice      string `json:"indexPrice"`
		LastFundingRate string `json:"lastFundingRate"`
		NextFundingTime int64  `json:"nextFundingTime"`
	}
	if err := a.getJSON(ctx, "/fapi/v1/premiumIndex", nil, &raw); err != nil {
		return nil, err
	}

	infos := make([]domain.FundingInfo, 0, len(raw))
	for _, r := range raw {
		info := domain.FundingInfo{
			Symbol:          r.Symbol,
			NextFundingTime: r.NextFundingTime,
		}
		info.LastFundingRate, _ = strconv.ParseFloat(r.LastFundingRate, 64)
		info.MarkPrice, _ = strconv.ParseFloat(r.MarkPrice, 64)
		info.IndexPrice, _ = strconv.ParseFloat(r.IndexPrice, 64)
		infos = append(infos, info)
	}
	return infos, nil
}

func (a *BinanceAdapter) GetFundingIntervals(ctx context.Context) (map[string]int, error) {
	var raw []struct {
		Symbol               string `json:"symbol"`
		FundingIntervalHours int    `json:"fundingIntervalHours"`
	}
	if err := a.getJSON(ctx, "/fapi/v1/fundingInfo", nil, &raw); err != nil {
		return nil, err
	}

	intervals := make(map[string]int, len(raw))
	for _, r := range raw {
		if r.Symbol != "" {
			intervals[r.Symbol] = r.FundingIntervalHours
		}
	}
	return intervals, nil
}

func (a *BinanceAdapter) GetDailyKlines(ctx context.Context, symbol string, limit int) ([]domain.Kline, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1d")
	params.Set("limit", strconv.Itoa(limit))

	// Format: [openTime, open, high, low, close, volume, closeTime, quoteVolume, ...]
	var raw [][]interface{}
	if err := a.getJSON(ctx, "/fapi/v1/klines", params, &raw); err != nil {
		return nil, err
	}

	klines := make([]domain.Kline, 0, len(raw))
	for _, row := range raw {
		if len(row) < 8 {
			continue
		}
		var k domain.Kline
		if ts, ok := row[0].(float64); ok {
			k.OpenTime = int64(ts)
		}
		k.Open = parseFloatField(row[1])
		k.High = parseFloatField(row[2])
		k.Low = parseFloatField(row[3])
		k.Close = parseFloatField(row[4])
		k.Volume = parseFloatField(row[5])
		k.QuoteVolume = parseFloatField(row[7])
		klines = append(klines, k)
	}
	return klines, nil
}

func (a *BinanceAdapter) GetLongShortRatio(ctx context.Context, symbol string) (*domain.LongShortRatio, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("period", "5m")
	params.Set("limit", "1")

	var raw []struct {
		LongShortRatio string `json:"longShortRatio"`
		LongAccount    string `json:"longAccount"`
		ShortAccount   string `json:"shortAccount"`
	}
	if err := a.getJSON(ctx, "/futures/data/globalLongShortAccountRatio", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &domain.UpstreamError{
			Kind:     domain.UpstreamMalformedPayload,
			Endpoint: "/futures/data/globalLongShortAccountRatio",
			Err:      fmt.Errorf("empty ratio payload for %s", symbol),
		}
	}

	ratio, _ := strconv.ParseFloat(raw[0].LongShortRatio, 64)
	longAcc, _ := strconv.ParseFloat(raw[0].LongAccount, 64)
	shortAcc, _ := strconv.ParseFloat(raw[0].ShortAccount, 64)

	// longAccount/shortAccount come back as fractions of 1.
	return &domain.LongShortRatio{
		Ratio: ratio,
		Long:  longAcc * 100,
		Short: shortAcc * 100,
	}, nil
}

func parseFloatField(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
