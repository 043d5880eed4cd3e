package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vitos/market_dashboard/internal/infrastructure/cache"
	"github.com/vitos/market_dashboard/internal/infrastructure/exchange"
	"github.com/vitos/market_dashboard/internal/infrastructure/logger"
	"github.com/vitos/market_dashboard/internal/infrastructure/sentiment"
	"github.com/vitos/market_dashboard/internal/usecase"
	"github.com/vitos/market_dashboard/internal/web"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port     int    `yaml:"port"`
		HTMLPath string `yaml:"html_path"`
	} `yaml:"server"`
	Upstream struct {
		BinanceEndpoint   string `yaml:"binance_endpoint"`
		SentimentEndpoint string `yaml:"sentiment_endpoint"`
	} `yaml:"upstream"`
	Grid struct {
		ConfigDir string `yaml:"config_dir"`
	} `yaml:"grid"`
	Push struct {
		IntervalMs int `yaml:"interval_ms"`
	} `yaml:"push"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// .env is optional; env vars override nothing in the yaml, they only
	// fill endpoints left empty there.
	_ = godotenv.Load()

	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Upstream.BinanceEndpoint == "" {
		cfg.Upstream.BinanceEndpoint = os.Getenv("BINANCE_ENDPOINT")
	}
	if cfg.Upstream.SentimentEndpoint == "" {
		cfg.Upstream.SentimentEndpoint = os.Getenv("SENTIMENT_ENDPOINT")
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := cache.NewStore()
	binanceAdapter := exchange.NewBinanceAdapter(cfg.Upstream.BinanceEndpoint)
	sentimentAdapter := sentiment.NewAlternativeMeAdapter(cfg.Upstream.SentimentEndpoint)

	snapshotService := usecase.NewSnapshotService(binanceAdapter, store, log)
	fundingService := usecase.NewFundingService(binanceAdapter, store, log)
	referenceService := usecase.NewReferenceService(binanceAdapter, store, log)
	sentimentService := usecase.NewSentimentService(sentimentAdapter, store, log)
	backtestService := usecase.NewBacktestService(binanceAdapter, log)
	analysisService := usecase.NewAnalysisService(store)
	gridConfigs := usecase.NewGridConfigService(cfg.Grid.ConfigDir, log)

	port := cfg.Server.Port
	if port == 0 {
		port = 8888
	}
	htmlPath := cfg.Server.HTMLPath
	if htmlPath == "" {
		htmlPath = "internal/web/static/dashboard.html"
	}

	server := web.NewServer(port, snapshotService, fundingService, referenceService,
		sentimentService, backtestService, analysisService, gridConfigs, htmlPath, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pushInterval := time.Duration(cfg.Push.IntervalMs) * time.Millisecond
	if pushInterval <= 0 {
		pushInterval = 10 * time.Second
	}
	go server.RunBroadcast(ctx, pushInterval)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-stop

	log.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
