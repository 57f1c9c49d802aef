package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/pkg/logger"
)

const testURL = "https://openexchangerates.org/api/latest.json?app_id=secret&base=USD"

type MockTransport struct {
	DoFunc   func(req *http.Request) (*http.Response, error)
	Requests []*http.Request
}

func (m *MockTransport) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.DoFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func TestGateway_Fetch(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		expected  model.RateTable
		errTarget error
		errText   string
	}{
		{
			name:   "ok keeps provider precision",
			status: http.StatusOK,
			body:   `{"base":"USD","rates":{"EUR":0.857649,"JPY":145.24400539}}`,
			expected: model.RateTable{
				"EUR": decimal.RequireFromString("0.857649"),
				"JPY": decimal.RequireFromString("145.24400539"),
			},
		},
		{
			name:     "ok with empty rates",
			status:   http.StatusOK,
			body:     `{"rates":{}}`,
			expected: model.RateTable{},
		},
		{
			name:     "bad request is an empty table",
			status:   http.StatusBadRequest,
			body:     `{"error":true,"status":400,"message":"not_available"}`,
			expected: model.RateTable{},
		},
		{
			name:   "null rate is dropped",
			status: http.StatusOK,
			body:   `{"rates":{"EUR":null,"GBP":0.73}}`,
			expected: model.RateTable{
				"GBP": decimal.RequireFromString("0.73"),
			},
		},
		{
			name:      "missing rates",
			status:    http.StatusOK,
			body:      `{"base":"USD"}`,
			errTarget: model.ErrMalformedResponse,
		},
		{
			name:      "null rates",
			status:    http.StatusOK,
			body:      `{"rates":null}`,
			errTarget: model.ErrMalformedResponse,
		},
		{
			name:      "invalid json",
			status:    http.StatusOK,
			body:      `{"rates":`,
			errTarget: model.ErrMalformedResponse,
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      "Server error or something",
			errTarget: model.ErrHTTPFailure,
			errText:   `HTTP error 500. Response is "Server error or something"`,
		},
		{
			name:      "forbidden",
			status:    http.StatusForbidden,
			body:      `{"message":"not_allowed"}`,
			errTarget: model.ErrHTTPFailure,
			errText:   `HTTP error 403. Response is "{"message":"not_allowed"}"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &MockTransport{DoFunc: respond(tc.status, tc.body)}
			gateway := NewGateway(transport, nil, logger.Nop(), nil)

			table, err := gateway.Fetch(context.Background(), testURL)

			if tc.errTarget != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.errTarget))
				if tc.errText != "" {
					assert.Equal(t, tc.errText, err.Error())
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, table)
			require.Len(t, table, len(tc.expected))
			for code, want := range tc.expected {
				assert.True(t, want.Equal(table[code]), "rate for %s", code)
			}
			assert.Len(t, transport.Requests, 1)
		})
	}
}

func TestGateway_KeepsPrecisionDigits(t *testing.T) {
	transport := &MockTransport{DoFunc: respond(http.StatusOK, `{"rates":{"JPY":145.24400539}}`)}
	gateway := NewGateway(transport, nil, logger.Nop(), nil)

	table, err := gateway.Fetch(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, "145.24400539", table["JPY"].String())
}

func TestGateway_RequestShape(t *testing.T) {
	transport := &MockTransport{DoFunc: respond(http.StatusOK, `{"rates":{}}`)}
	gateway := NewGateway(transport, nil, logger.Nop(), nil)

	_, err := gateway.Fetch(context.Background(), testURL)
	require.NoError(t, err)

	require.Len(t, transport.Requests, 1)
	req := transport.Requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, testURL, req.URL.String())
	assert.Equal(t, UserAgent(""), req.Header.Get("User-Agent"))
}

func TestGateway_AppendsExistingUserAgent(t *testing.T) {
	factory := RequestFactoryFunc(func(ctx context.Context, method, url string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "CustomSuffix/1.0")
		return req, nil
	})
	transport := &MockTransport{DoFunc: respond(http.StatusOK, `{"rates":{}}`)}
	gateway := NewGateway(transport, factory, logger.Nop(), nil)

	_, err := gateway.Fetch(context.Background(), testURL)
	require.NoError(t, err)

	ua := transport.Requests[0].Header.Get("User-Agent")
	assert.Equal(t, UserAgent("")+" CustomSuffix/1.0", ua)
	assert.True(t, strings.HasSuffix(ua, " CustomSuffix/1.0"))
}

func TestGateway_TransportError(t *testing.T) {
	cause := errors.New("connection refused")
	transport := &MockTransport{DoFunc: func(*http.Request) (*http.Response, error) {
		return nil, cause
	}}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	gateway := NewGateway(transport, nil, logger.Nop(), m)

	_, err := gateway.Fetch(context.Background(), testURL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, model.ErrHTTPFailure))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("error")))
}

func TestGateway_RecordsUpstreamStatus(t *testing.T) {
	transport := &MockTransport{DoFunc: respond(http.StatusBadRequest, "")}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	gateway := NewGateway(transport, nil, logger.Nop(), m)

	_, err := gateway.Fetch(context.Background(), testURL)

	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("400")))
}

func TestUserAgent(t *testing.T) {
	base := Product + "/" + Version + " OpenExchangeRatesClient/" + ClientVersion

	assert.Equal(t, base, UserAgent(""))
	assert.Equal(t, base+" CustomSuffix/1.0", UserAgent("CustomSuffix/1.0"))
}

func TestRedact(t *testing.T) {
	assert.Equal(t,
		"https://openexchangerates.org/api/latest.json?app_id=REDACTED&base=USD",
		redact(testURL))
	assert.Equal(t, "https://example.com/x", redact("https://example.com/x"))
}

func TestThrottledTransport(t *testing.T) {
	t.Run("nil limiter passes through", func(t *testing.T) {
		next := &MockTransport{DoFunc: respond(http.StatusOK, "")}
		assert.Same(t, next, NewThrottledTransport(next, nil))
	})

	t.Run("forwards when a token is available", func(t *testing.T) {
		next := &MockTransport{DoFunc: respond(http.StatusOK, "")}
		transport := NewThrottledTransport(next, rate.NewLimiter(rate.Inf, 1))

		req, err := http.NewRequest(http.MethodGet, testURL, nil)
		require.NoError(t, err)
		resp, err := transport.Do(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, next.Requests, 1)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		next := &MockTransport{DoFunc: respond(http.StatusOK, "")}
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		require.True(t, limiter.Allow())
		transport := NewThrottledTransport(next, limiter)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, testURL, nil)
		require.NoError(t, err)

		_, err = transport.Do(req)

		require.Error(t, err)
		assert.Empty(t, next.Requests)
	})
}
