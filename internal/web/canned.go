package web

import "net/http"

// Static showcase payloads for the dashboard tabs whose backing systems run
// out of process. The dashboard renders them as-is.

type systemModule struct {
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Status   string   `json:"status"`
	Desc     string   `json:"desc"`
	Features []string `json:"features"`
}

type systemExchange struct {
	Name   string `json:"name"`
	Spot   bool   `json:"spot"`
	Perp   bool   `json:"perp"`
	Status string `json:"status"`
}

type systemInfo struct {
	Name      string           `json:"name"`
	Version   string           `json:"version"`
	Modules   []systemModule   `json:"modules"`
	Exchanges []systemExchange `json:"exchanges"`
}

type washJob struct {
	ID       int    `json:"id"`
	Pair     string `json:"pair"`
	Mode     string `json:"mode"`
	Target   string `json:"target"`
	Progress string `json:"progress"`
	Status   string `json:"status"`
	Color    string `json:"color"`
}

type arbOpportunity struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Pair      string `json:"pair"`
	ExchangeA string `json:"exchange_a"`
	ExchangeB string `json:"exchange_b"`
	Spread    string `json:"spread"`
	Action    string `json:"action"`
}

type priceAlert struct {
	ID        int    `json:"id"`
	Pair      string `json:"pair"`
	Condition string `json:"condition"`
	Target    string `json:"target"`
	Distance  string `json:"distance"`
	Notify    string `json:"notify"`
	Status    string `json:"status"`
	Color     string `json:"color"`
}

type scannerEvent struct {
	ID         int    `json:"id"`
	Pair       string `json:"pair"`
	Window     string `json:"window"`
	Volatility string `json:"volatility"`
	Direction  string `json:"direction"`
	Time       string `json:"time"`
	Color      string `json:"color"`
}

var cannedSystemInfo = systemInfo{
	Name:    "Multi-Exchange Strategy Automation System",
	Version: "2.0",
	Modules: []systemModule{
		{
			Name: "Grid Trading", Icon: "📊", Status: "available",
			Desc: "Normal, martingale and trailing grids with scalp exits and principal protection",
			Features: []string{
				"Multiple grid modes: normal, martingale, price-following",
				"Risk controls: fast scalp stop-loss, principal-protection auto close",
				"Automatic spot reserve management",
				"Multi-exchange support (Hyperliquid, Backpack, Lighter)",
				"Order monitoring with automatic recovery",
			},
		},
		{
			Name: "Volume Making", Icon: "💹", Status: "available",
			Desc: "Maker mode (Backpack) and market-order mode (Lighter)",
			Features: []string{
				"Backpack limit-order volume mode",
				"Lighter websocket low-latency market-order mode",
				"Smart order matching with long/short hedging",
				"Precise volume and fee tracking",
				"Pluggable signal sources, including cross-exchange feeds",
			},
		},
		{
			Name: "Arbitrage Monitor", Icon: "🔄", Status: "available",
			Desc: "Segmented, multi-leg and cross-exchange arbitrage",
			Features: []string{
				"Statistical decision engine built on historical spread independence",
				"Segmented grid order placement to limit slippage on size",
				"Millisecond spread monitoring and merged execution across venues",
				"Long-horizon funding-rate differential capture",
				"Live liquidity checks before resting orders",
			},
		},
		{
			Name: "Price Alerts", Icon: "🔔", Status: "available",
			Desc: "Multi-exchange breakout monitoring with audible alerts",
			Features: []string{
				"Upper and lower price threshold monitoring",
				"Aggregated depth monitoring across exchanges",
				"System beep and vibration on take-profit or stop-loss levels",
				"Terminal UI with live price updates",
				"Suited to confirming single key support/resistance breaks",
			},
		},
		{
			Name: "Volatility Scanner", Icon: "🔍", Status: "available",
			Desc: "Virtual grid simulation, live APR estimates, automated grading",
			Features: []string{
				"Fee-free backtesting with virtual order grids",
				"Live annualised return (APR) estimates per symbol",
				"Market-wide S/A/B/C/D grading from the return model",
				"Rolling volatility ranking of USDT-margined contracts",
				"Data-driven parameter suggestions for live grid runs",
			},
		},
	},
	Exchanges: []systemExchange{
		{Name: "Binance", Spot: true, Perp: true, Status: "active"},
		{Name: "OKX", Spot: true, Perp: true, Status: "active"},
		{Name: "Hyperliquid", Spot: true, Perp: true, Status: "active"},
		{Name: "Backpack", Spot: false, Perp: true, Status: "active"},
		{Name: "Lighter", Spot: true, Perp: true, Status: "active"},
		{Name: "EdgeX", Spot: false, Perp: true, Status: "active"},
		{Name: "Paradex", Spot: false, Perp: true, Status: "active"},
		{Name: "GRVT", Spot: false, Perp: true, Status: "active"},
		{Name: "Variational", Spot: false, Perp: false, Status: "limited"},
	},
}

var cannedWashJobs = []washJob{
	{ID: 1, Pair: "ETH/USDT", Mode: "MAKER_TAKER", Target: "1,000 ETH", Progress: "65%", Status: "Running", Color: "var(--gain)"},
	{ID: 2, Pair: "SOL/USDT", Mode: "LIGHTER", Target: "5,000 SOL", Progress: "12%", Status: "Paused", Color: "var(--text-muted)"},
	{ID: 3, Pair: "WIF/USDT", Mode: "RANDOM", Target: "100K WIF", Progress: "99%", Status: "Running", Color: "var(--gain)"},
	{ID: 4, Pair: "SUI/USDT", Mode: "GRID_WASH", Target: "20,000 SUI", Progress: "87%", Status: "Running", Color: "var(--gain)"},
	{ID: 5, Pair: "AVAX/USDT", Mode: "PING_PONG", Target: "15,000 AVAX", Progress: "45%", Status: "Running", Color: "var(--gain)"},
	{ID: 6, Pair: "APT/USDT", Mode: "MAKER_TAKER", Target: "10,000 APT", Progress: "0%", Status: "Pending", Color: "var(--text-muted)"},
	{ID: 7, Pair: "LINK/USDT", Mode: "TWAP", Target: "5,000 LINK", Progress: "100%", Status: "Finished", Color: "var(--text-primary)"},
}

var cannedArbOpportunities = []arbOpportunity{
	{ID: 1, Type: "Spot/Perp", Pair: "BTC", ExchangeA: "Binance ($64,710)", ExchangeB: "OKX ($64,750)", Spread: "+0.06%", Action: "Hedge both legs"},
	{ID: 2, Type: "Triangular", Pair: "ETH/BTC", ExchangeA: "Binance (0.0450)", ExchangeB: "Bybit (0.0461)", Spread: "+2.4%", Action: "Smart route"},
	{ID: 3, Type: "Perp/Perp", Pair: "SOL/USDT", ExchangeA: "Bybit ($145.20)", ExchangeB: "MEXC ($146.10)", Spread: "+0.62%", Action: "One-click arb"},
	{ID: 4, Type: "Spot/Spot", Pair: "WIF/USDT", ExchangeA: "Gate.io ($2.105)", ExchangeB: "Binance ($2.130)", Spread: "+1.18%", Action: "Transfer and sell"},
	{ID: 5, Type: "Spot/Perp", Pair: "PEPE", ExchangeA: "KuCoin ($0.0001)", ExchangeB: "MEEX ($0.00012)", Spread: "+0.20%", Action: "Auto hedge"},
	{ID: 6, Type: "Perp/Perp", Pair: "DOGE/USDT", ExchangeA: "Binance ($0.150)", ExchangeB: "OKX ($0.153)", Spread: "+2.00%", Action: "Hedge both legs"},
}

var cannedAlerts = []priceAlert{
	{ID: 1, Pair: "DOGE/USDT", Condition: "Price >", Target: "$0.500", Distance: "7.5% away", Notify: "Telegram, Webhook", Status: "Active", Color: "var(--text-primary)"},
	{ID: 2, Pair: "PEPE/USDT", Condition: "Funding rate <", Target: "-0.5%", Distance: "Reached", Notify: "SMS, App", Status: "Triggered", Color: "var(--loss)"},
	{ID: 3, Pair: "BTC/USDT", Condition: "Price <", Target: "$58,000", Distance: "10.3% away", Notify: "Telegram", Status: "Active", Color: "var(--text-primary)"},
	{ID: 4, Pair: "ETH/USDT", Condition: "24h volume >", Target: "$5B", Distance: "$1B away", Notify: "App Notification", Status: "Active", Color: "var(--text-primary)"},
	{ID: 5, Pair: "SOL/USDT", Condition: "1h change >", Target: "10%", Distance: "Reached", Notify: "Email, SMS", Status: "Triggered", Color: "var(--gain)"},
	{ID: 6, Pair: "SUI/USDT", Condition: "Abnormal move >", Target: "5% / 1m", Distance: "Not triggered (-2%)", Notify: "DingTalk", Status: "Active", Color: "var(--text-primary)"},
	{ID: 7, Pair: "AR/USDT", Condition: "Depth imbalance", Target: "> 5.0", Distance: "1.5 away", Notify: "Webhook", Status: "Active", Color: "var(--text-primary)"},
}

var cannedScannerEvents = []scannerEvent{
	{ID: 1, Pair: "SUI/USDT", Window: "5m", Volatility: "8.5%", Direction: "Bullish breakout", Time: "Just now", Color: "var(--gain)"},
	{ID: 2, Pair: "TRB/USDT", Window: "1m", Volatility: "15.2%", Direction: "Crash", Time: "2m ago", Color: "var(--loss)"},
	{ID: 3, Pair: "BOME/USDT", Window: "15s", Volatility: "5.3%", Direction: "Pump", Time: "5m ago", Color: "var(--gain)"},
	{ID: 4, Pair: "ORDI/USDT", Window: "3m", Volatility: "7.1%", Direction: "Absorption", Time: "12m ago", Color: "var(--gain)"},
	{ID: 5, Pair: "WIF/USDT", Window: "1m", Volatility: "10.0%", Direction: "Flash crash", Time: "18m ago", Color: "var(--loss)"},
	{ID: 6, Pair: "MKR/USDT", Window: "5m", Volatility: "4.2%", Direction: "Whale buy", Time: "25m ago", Color: "var(--gain)"},
	{ID: 7, Pair: "TIA/USDT", Window: "10s", Volatility: "3.8%", Direction: "Liquidity drained", Time: "30m ago", Color: "var(--text-muted)"},
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, cannedSystemInfo)
}

func (s *Server) handleWashStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"data": cannedWashJobs})
}

func (s *Server) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"data": cannedArbOpportunities})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"data": cannedAlerts})
}

func (s *Server) handleScannerEvents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"data": cannedScannerEvents})
}
