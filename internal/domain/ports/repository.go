package ports

import (
	"context"
	"net/http"

	"openexchangerates-service/internal/domain/model"
)

// HTTPTransport sends a request. *http.Client satisfies it.
type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestFactory builds outbound requests. Implementations may pre-set a
// User-Agent, which is kept as a suffix of the service's own.
type RequestFactory interface {
	NewRequest(ctx context.Context, method, url string) (*http.Request, error)
}

// RateFetcher retrieves the rate table behind a provider URL.
type RateFetcher interface {
	Fetch(ctx context.Context, url string) (model.RateTable, error)
}
