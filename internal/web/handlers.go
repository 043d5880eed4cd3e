package web

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/vitos/market_dashboard/internal/domain"
	"go.uber.org/zap"
)

// tickersEnvelope is the wire shape of the main dashboard payload.
type tickersEnvelope struct {
	Exchange     string                    `json:"exchange"`
	Data         []domain.AggregatedSymbol `json:"data"`
	Other        []domain.AggregatedSymbol `json:"other"`
	TotalVolume  float64                   `json:"total_volume"`
	VolumeChange float64                   `json:"volume_change"`
	Ts           int64                     `json:"ts"`
}

func snapshotEnvelope(snap *domain.MarketSnapshot) tickersEnvelope {
	return tickersEnvelope{
		Exchange:     "Binance",
		Data:         snap.Main,
		Other:        snap.Other,
		TotalVolume:  snap.TotalVolume,
		VolumeChange: snap.VolumeChange,
		Ts:           time.Now().UnixMilli(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := os.ReadFile(s.htmlPath)
	if err != nil {
		s.logger.Error("Failed to read dashboard page", zap.Error(err))
		http.Error(w, "dashboard page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// Upstream failures never surface as 5xx here: the services degrade to
// stale or empty data and the handlers serialize whatever they got.

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshotService.GetMarketSnapshot(r.Context())
	s.writeJSON(w, snapshotEnvelope(snap))
}

func (s *Server) handleFunding(w http.ResponseWriter, r *http.Request) {
	rows := s.fundingService.GetFundingRatesTop(r.Context(), 20)
	s.writeJSON(w, map[string]interface{}{
		"exchange": "Binance",
		"data":     rows,
		"ts":       time.Now().UnixMilli(),
	})
}

func (s *Server) handleReferencePrices(w http.ResponseWriter, r *http.Request) {
	prices := s.referenceService.GetReferencePrices(r.Context(), []string{"BTCUSDT", "ETHUSDT"})
	s.writeJSON(w, map[string]interface{}{
		"btc": prices["BTCUSDT"],
		"eth": prices["ETHUSDT"],
	})
}

func (s *Server) handleFearGreed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.sentimentService.GetFearGreed(r.Context()))
}

func (s *Server) handleGridBacktest(w http.ResponseWriter, r *http.Request) {
	rows := s.backtestService.GetGridBacktest(r.Context())
	s.writeJSON(w, map[string]interface{}{"data": rows})
}

func (s *Server) handleGridConfigs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"configs": s.gridConfigs.List()})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	s.writeJSON(w, map[string]string{"analysis": s.analysisService.GetAnalysis(symbol)})
}
