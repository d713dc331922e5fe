// Package rates looks up the live USD->PHP exchange rate.
package rates

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/plant-storefront/internal/metrics"
)

// FallbackRate is used whenever the live lookup fails for any reason.
const FallbackRate = 56.5

const DefaultEndpoint = "https://api.exchangerate-api.com/v4/latest/USD"

type Provider interface {
	FetchRate(ctx context.Context) float64
}

type httpProvider struct {
	endpoint string
	client   *http.Client
}

// NewProvider returns a Provider backed by endpoint. A nil client means
// http.DefaultClient, whose only timeout is the transport's own.
func NewProvider(endpoint string, client *http.Client) Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &httpProvider{endpoint: endpoint, client: client}
}

type ratesBody struct {
	Rates struct {
		PHP *float64 `json:"PHP"`
	} `json:"rates"`
}

// FetchRate makes a single attempt and never fails: every error is absorbed
// into FallbackRate. Nothing is cached.
func (p *httpProvider) FetchRate(ctx context.Context) float64 {
	logger := slog.Default().With(slog.String("endpoint", p.endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return fallback(logger, "request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fallback(logger, "transport", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Warn("Exchange rate service returned non-200", slog.Int("status", resp.StatusCode))
		return fallback(logger, "status", nil)
	}

	var body ratesBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fallback(logger, "decode", err)
	}

	if body.Rates.PHP == nil || *body.Rates.PHP <= 0 {
		return fallback(logger, "missing_php", nil)
	}

	logger.Debug("Fetched exchange rate", slog.Float64("rate", *body.Rates.PHP))
	return *body.Rates.PHP
}

func fallback(logger *slog.Logger, reason string, err error) float64 {
	attrs := []any{slog.String("reason", reason), slog.Float64("fallbackRate", FallbackRate)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	logger.Warn("Using fallback exchange rate", attrs...)
	metrics.ExchangeRateFallback(reason)

	return FallbackRate
}

// Static always returns the same rate. Useful where a rate was already
// fetched for the current view, and in tests.
type Static float64

func (s Static) FetchRate(context.Context) float64 {
	return float64(s)
}
