package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RateResponse is either Success or Failure.
type RateResponse interface {
	isRateResponse()
}

type Success struct {
	Rate decimal.Decimal
	Date civil.Date
}

// Failure carries a *RequestNotSupportedError or a *RateNotFoundError.
type Failure struct {
	Err error
}

func (Success) isRateResponse() {}
func (Failure) isRateResponse() {}

func (f Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}
