package model

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

var (
	ErrRequestNotSupported = errors.New("request not supported")
	ErrRateNotFound        = errors.New("exchange rate not found")
	ErrHTTPFailure         = errors.New("http failure")
	ErrMalformedResponse   = errors.New("malformed provider response")
)

type RequestNotSupportedError struct {
	TypeName string
}

func NewRequestNotSupportedError(request any) *RequestNotSupportedError {
	return &RequestNotSupportedError{TypeName: fmt.Sprintf("%T", request)}
}

func (e *RequestNotSupportedError) Error() string {
	return fmt.Sprintf("Unsupported request type: %q", e.TypeName)
}

func (e *RequestNotSupportedError) Is(target error) bool {
	return target == ErrRequestNotSupported
}

// RateNotFoundError has a nil Date for current-rate requests.
type RateNotFoundError struct {
	Pair CurrencyPair
	Date *civil.Date
}

func (e *RateNotFoundError) Error() string {
	if e.Date == nil {
		return fmt.Sprintf("Unable to find exchange rate for %s", e.Pair)
	}
	return fmt.Sprintf("Unable to find exchange rate for %s on %s", e.Pair, e.Date.String())
}

func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}

// HTTPFailureError reports a provider status other than 200 or 400.
type HTTPFailureError struct {
	StatusCode int
	Body       string
}

func (e *HTTPFailureError) Error() string {
	return fmt.Sprintf("HTTP error %d. Response is \"%s\"", e.StatusCode, e.Body)
}

func (e *HTTPFailureError) Is(target error) bool {
	return target == ErrHTTPFailure
}

// MalformedResponseError means the provider answered 200 with a body that
// does not follow its documented shape.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
