package usecase

import (
	"fmt"
	"strings"

	"github.com/vitos/market_dashboard/internal/domain"
)

// AnalysisService renders the per-symbol "AI analysis" text. It is pure
// string formatting over the already-cached snapshot: it never triggers a
// refresh and never calls upstream.
type AnalysisService struct {
	cache domain.Cache
}

func NewAnalysisService(cache domain.Cache) *AnalysisService {
	return &AnalysisService{cache: cache}
}

const analysisUnavailable = "Live data for this pair is not cached yet; analysis is temporarily unavailable."

// GetAnalysis returns the formatted analysis for symbol (accepts both
// BTC/USDT and BTCUSDT forms). Symbols absent from the cached snapshot get
// a fixed unavailable message.
func (s *AnalysisService) GetAnalysis(symbol string) string {
	v, found, _ := s.cache.Get(SnapshotCacheKey)
	if !found {
		return analysisUnavailable
	}
	snap := v.(*domain.MarketSnapshot)

	want := strings.ReplaceAll(symbol, "/", "")
	var row *domain.AggregatedSymbol
	for _, list := range [][]domain.AggregatedSymbol{snap.Main, snap.Other} {
		for i := range list {
			if strings.ReplaceAll(list[i].Symbol, "/", "") == want {
				row = &list[i]
				break
			}
		}
		if row != nil {
			break
		}
	}
	if row == nil {
		return analysisUnavailable
	}

	return renderAnalysis(row)
}

func renderAnalysis(t *domain.AggregatedSymbol) string {
	price := t.Price
	high := t.High24h
	low := t.Low24h
	if high <= price {
		high = price * 1.05
	}
	if low >= price {
		low = price * 0.95
	}

	var b strings.Builder

	// 1. Technicals
	phase := "high-range consolidation after an expansion leg"
	chase := "chasing the move up"
	if t.Change24h < 0 {
		phase = "low-range basing after a contraction leg"
		chase = "selling into weakness"
	}
	res1 := fmtPrice(high)
	res2 := fmtPrice(high * 1.05)
	sup1 := fmtPrice(low + (price-low)*0.5)
	sup2 := fmtPrice(low)
	fmt.Fprintf(&b, "1. Technical structure\n")
	fmt.Fprintf(&b, "- Price is in a %s; %s trades against %s of 24h turnover.\n",
		phase, fmtPrice(price), fmtVolume(t.Volume24h))
	fmt.Fprintf(&b, "- Resistance: %s (24h high), %s (extension). Support: %s, %s.\n", res1, res2, sup1, sup2)
	fmt.Fprintf(&b, "- Momentum near %s is fading versus the current level, so %s carries retest risk.\n\n", res1, chase)

	// 2. Positioning
	fundingPct := t.FundingRate * 100
	fundingDesc := "neutral"
	costSide := "both sides"
	squeeze := "long squeeze"
	if fundingPct < -0.01 {
		fundingDesc = "strongly negative"
		costSide = "shorts"
		squeeze = "short squeeze"
	} else if fundingPct > 0.01 {
		fundingDesc = "strongly positive"
		costSide = "longs"
	} else if fundingPct < 0 {
		squeeze = "short squeeze"
	}
	domSide := "longs"
	if t.LSRatio.Ratio < 1 {
		domSide = "shorts"
	}
	ratioDisp := fmt.Sprintf("%.2f", t.LSRatio.Ratio)
	if t.LSRatio.Ratio == RatioSentinel {
		ratioDisp = "extreme"
	}
	fmt.Fprintf(&b, "2. Positioning\n")
	fmt.Fprintf(&b, "- Funding rate %.4f%% is %s; carry cost sits with %s and a %s is the tail risk.\n",
		fundingPct, fundingDesc, costSide, squeeze)
	fmt.Fprintf(&b, "- Long/short account ratio %s favors %s.\n\n", ratioDisp, domSide)

	// 3. Liquidation zones
	fmt.Fprintf(&b, "3. Liquidation zones\n")
	fmt.Fprintf(&b, "- Short liquidations cluster between %s and %s; a break of %s opens %s.\n",
		fmtPrice(price*1.04), fmtPrice(price*1.08), fmtPrice(price*1.05), fmtPrice(price*1.12))
	fmt.Fprintf(&b, "- Long liquidations build below %s; losing %s extends the drawdown.\n\n",
		fmtPrice(price*0.96), fmtPrice(price*0.93))

	// 4. Playbook
	dir := "long"
	entry := fmt.Sprintf("%s - %s", fmtPrice(price*0.98), fmtPrice(price*0.995))
	stop := fmtPrice(price * 0.95)
	target := fmtPrice(price * 1.06)
	if t.Change24h < 0 {
		dir = "short"
		entry = fmt.Sprintf("%s - %s", fmtPrice(price*1.005), fmtPrice(price*1.02))
		stop = fmtPrice(price * 1.05)
		target = fmtPrice(price * 0.90)
	}
	fmt.Fprintf(&b, "4. Playbook\n")
	fmt.Fprintf(&b, "- Short term: stage a %s between %s, hard stop at %s, first target %s.\n", dir, entry, stop, target)
	fmt.Fprintf(&b, "- With a 24h move of %.2f%% already printed, avoid unprotected entries until funding normalizes.\n",
		t.Change24h)

	return b.String()
}

// fmtPrice keeps enough precision for small-cap quotes.
func fmtPrice(p float64) string {
	switch {
	case p < 0.001:
		return fmt.Sprintf("%.6f", p)
	case p < 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.2f", p)
	}
}

func fmtVolume(v float64) string {
	if v >= 1e9 {
		return fmt.Sprintf("%.2fB USDT", v/1e9)
	}
	if v >= 1e6 {
		return fmt.Sprintf("%.2fM USDT", v/1e6)
	}
	return fmt.Sprintf("%.0f USDT", v)
}
