package sentiment

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

const AlternativeMeBaseURL = "https://api.alternative.me"

// AlternativeMeAdapter reads the daily Fear & Greed index. The index only
// updates once a day, so callers cache it aggressively.
type AlternativeMeAdapter struct {
	baseURL string
	client  *http.Client
}

func NewAlternativeMeAdapter(baseURL string) *AlternativeMeAdapter {
	if baseURL == "" {
		baseURL = AlternativeMeBaseURL
	}
	return &AlternativeMeAdapter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *AlternativeMeAdapter) GetFearGreed(ctx context.Context, limit int) ([]domain.FearGreedPoint, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/fng/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		kind := domain.UpstreamMalformedPayload
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			kind = domain.UpstreamTimeout
		}
		return nil, &domain.UpstreamError{Kind: kind, Endpoint: "/fng/", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Kind:     domain.UpstreamBadStatus,
			Endpoint: "/fng/",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	var raw struct {
		Data []struct {
			Value          string `json:"value"`
			Classification string `json:"value_classification"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformedPayload, Endpoint: "/fng/", Err: err}
	}

	points := make([]domain.FearGreedPoint, 0, len(raw.Data))
	for _, d := range raw.Data {
		value, _ := strconv.Atoi(d.Value)
		points = append(points, domain.FearGreedPoint{
			Value:          value,
			Classification: d.Classification,
		})
	}
	return points, nil
}
