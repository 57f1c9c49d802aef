package repository

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"openexchangerates-service/internal/domain/ports"
)

type throttledTransport struct {
	next    ports.HTTPTransport
	limiter *rate.Limiter
}

// NewThrottledTransport waits for a limiter token before every request. It
// never retries. A nil limiter disables throttling.
func NewThrottledTransport(next ports.HTTPTransport, limiter *rate.Limiter) ports.HTTPTransport {
	if limiter == nil {
		return next
	}
	return &throttledTransport{next: next, limiter: limiter}
}

func (t *throttledTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Do(req)
}
