package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vitos/market_dashboard/internal/infrastructure/exchange"
	"github.com/vitos/market_dashboard/internal/infrastructure/sentiment"
)

// Hits each upstream feed once and prints a short summary. Useful for
// checking connectivity and payload shapes without starting the server.
func main() {
	binanceEndpoint := os.Getenv("BINANCE_ENDPOINT")
	sentimentEndpoint := os.Getenv("SENTIMENT_ENDPOINT")

	binance := exchange.NewBinanceAdapter(binanceEndpoint)
	alt := sentiment.NewAlternativeMeAdapter(sentimentEndpoint)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Checking upstream feeds...")

	tickers, err := binance.GetTickers24h(ctx)
	if err != nil {
		fmt.Printf("❌ tickers: %v\n", err)
	} else {
		fmt.Printf("✅ tickers: %d symbols\n", len(tickers))
	}

	btc, err := binance.GetTicker24h(ctx, "BTCUSDT")
	if err != nil {
		fmt.Printf("❌ BTCUSDT ticker: %v\n", err)
	} else {
		fmt.Printf("✅ BTCUSDT: price=%.2f change=%.2f%%\n", btc.LastPrice, btc.PriceChangePercent)
	}

	premium, err := binance.GetPremiumIndex(ctx)
	if err != nil {
		fmt.Printf("❌ premium index: %v\n", err)
	} else {
		fmt.Printf("✅ premium index: %d entries\n", len(premium))
	}

	intervals, err := binance.GetFundingIntervals(ctx)
	if err != nil {
		fmt.Printf("❌ funding info: %v\n", err)
	} else {
		fmt.Printf("✅ funding info: %d entries\n", len(intervals))
	}

	klines, err := binance.GetDailyKlines(ctx, "BTCUSDT", 2)
	if err != nil {
		fmt.Printf("❌ BTCUSDT klines: %v\n", err)
	} else {
		fmt.Printf("✅ BTCUSDT klines: %d rows, today quote volume=%.0f\n", len(klines), klines[len(klines)-1].QuoteVolume)
	}

	ratio, err := binance.GetLongShortRatio(ctx, "BTCUSDT")
	if err != nil {
		fmt.Printf("❌ long/short ratio: %v\n", err)
	} else {
		fmt.Printf("✅ long/short ratio: %.2f (long %.1f%% / short %.1f%%)\n", ratio.Ratio, ratio.Long, ratio.Short)
	}

	fng, err := alt.GetFearGreed(ctx, 2)
	if err != nil {
		fmt.Printf("❌ fear & greed: %v\n", err)
	} else if len(fng) > 0 {
		fmt.Printf("✅ fear & greed: %d (%s)\n", fng[0].Value, fng[0].Classification)
	}
}
