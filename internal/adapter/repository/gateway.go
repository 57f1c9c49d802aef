package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/internal/domain/ports"
	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/pkg/logger"
)

var _ ports.RateFetcher = (*Gateway)(nil)

// RequestFactoryFunc adapts a function to ports.RequestFactory.
type RequestFactoryFunc func(ctx context.Context, method, url string) (*http.Request, error)

func (f RequestFactoryFunc) NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	return f(ctx, method, url)
}

func DefaultRequestFactory() ports.RequestFactory {
	return RequestFactoryFunc(func(ctx context.Context, method, url string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, method, url, nil)
	})
}

// Gateway performs provider GETs and decodes the rates table.
type Gateway struct {
	transport ports.HTTPTransport
	requests  ports.RequestFactory
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// Rates are pointers so a JSON null stays distinguishable from zero.
type providerResponse struct {
	Rates map[string]*decimal.Decimal `json:"rates"`
}

// NewGateway uses http.DefaultClient and DefaultRequestFactory for nil arguments.
func NewGateway(transport ports.HTTPTransport, requests ports.RequestFactory, log *logger.Logger, m *metrics.Metrics) *Gateway {
	if transport == nil {
		transport = http.DefaultClient
	}
	if requests == nil {
		requests = DefaultRequestFactory()
	}
	return &Gateway{
		transport: transport,
		requests:  requests,
		log:       log,
		metrics:   m,
	}
}

func (g *Gateway) Fetch(ctx context.Context, rawURL string) (model.RateTable, error) {
	req, err := g.requests.NewRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent(req.Header.Get("User-Agent")))

	endpoint := redact(rawURL)
	g.log.Debug("Calling rate provider", "url", endpoint)

	start := time.Now()
	resp, err := g.transport.Do(req)
	if err != nil {
		g.metrics.Upstream(0, time.Since(start))
		g.log.Error("Rate provider request failed", "url", endpoint, "error", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	g.metrics.Upstream(resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeRates(body)
	case http.StatusBadRequest:
		// The provider answers 400 when it has no data for the query.
		g.log.Info("Rate provider has no data for query", "url", endpoint)
		return model.RateTable{}, nil
	default:
		g.log.Warn("Rate provider returned error status", "url", endpoint, "status", resp.StatusCode)
		return nil, &model.HTTPFailureError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func decodeRates(body []byte) (model.RateTable, error) {
	var payload providerResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &model.MalformedResponseError{Reason: "invalid JSON in provider response", Err: err}
	}
	if payload.Rates == nil {
		return nil, &model.MalformedResponseError{Reason: "provider response has no rates"}
	}

	table := make(model.RateTable, len(payload.Rates))
	for code, rate := range payload.Rates {
		// A null rate means the provider has no value for that currency.
		if rate == nil {
			continue
		}
		table[code] = *rate
	}
	return table, nil
}

// redact hides the app id before a URL reaches the logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("app_id") {
		q.Set("app_id", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
