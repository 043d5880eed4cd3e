package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/market_dashboard/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router           *http.ServeMux
	server           *http.Server
	snapshotService  *usecase.SnapshotService
	fundingService   *usecase.FundingService
	referenceService *usecase.ReferenceService
	sentimentService *usecase.SentimentService
	backtestService  *usecase.BacktestService
	analysisService  *usecase.AnalysisService
	gridConfigs      *usecase.GridConfigService
	hub              *Hub
	htmlPath         string
	logger           *zap.Logger
}

func NewServer(
	port int,
	snapshotService *usecase.SnapshotService,
	fundingService *usecase.FundingService,
	referenceService *usecase.ReferenceService,
	sentimentService *usecase.SentimentService,
	backtestService *usecase.BacktestService,
	analysisService *usecase.AnalysisService,
	gridConfigs *usecase.GridConfigService,
	htmlPath string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		snapshotService:  snapshotService,
		fundingService:   fundingService,
		referenceService: referenceService,
		sentimentService: sentimentService,
		backtestService:  backtestService,
		analysisService:  analysisService,
		gridConfigs:      gridConfigs,
		hub:              NewHub(logger),
		htmlPath:         htmlPath,
		logger:           logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Dashboard page
	s.router.HandleFunc("GET /", s.handleIndex)

	// Market data
	s.router.HandleFunc("GET /api/binance/tickers", s.handleTickers)
	s.router.HandleFunc("GET /api/binance/funding", s.handleFunding)
	s.router.HandleFunc("GET /api/binance/btc_eth", s.handleReferencePrices)
	s.router.HandleFunc("GET /api/market/fng", s.handleFearGreed)

	// Grid tools
	s.router.HandleFunc("GET /api/grid/backtest", s.handleGridBacktest)
	s.router.HandleFunc("GET /api/grid/configs", s.handleGridConfigs)

	// Analysis
	s.router.HandleFunc("GET /api/ai/analysis", s.handleAnalysis)

	// Live feed
	s.router.HandleFunc("GET /ws/market", s.handleMarketWS)

	// Static module overview and demo panels
	s.router.HandleFunc("GET /api/system/info", s.handleSystemInfo)
	s.router.HandleFunc("GET /api/wash/status", s.handleWashStatus)
	s.router.HandleFunc("GET /api/arbitrage/opportunities", s.handleArbitrage)
	s.router.HandleFunc("GET /api/alerts/list", s.handleAlerts)
	s.router.HandleFunc("GET /api/scanner/events", s.handleScannerEvents)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.server.Shutdown(ctx)
}
