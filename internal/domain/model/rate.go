package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RateTable maps currency codes to rates for one provider query.
// A non-nil empty table means the provider had no data for the query.
type RateTable map[string]decimal.Decimal

// RateRequest is implemented by the request variants the service understands.
// Other implementations are rejected as unsupported.
type RateRequest interface {
	Pair() CurrencyPair
}

type CurrentRateRequest struct {
	BaseCurrency  Currency
	QuoteCurrency Currency
}

func NewCurrentRateRequest(base, quote string) CurrentRateRequest {
	return CurrentRateRequest{BaseCurrency: Currency(base), QuoteCurrency: Currency(quote)}
}

func (r CurrentRateRequest) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrency: r.BaseCurrency, QuoteCurrency: r.QuoteCurrency}
}

type HistoricalRateRequest struct {
	BaseCurrency  Currency
	QuoteCurrency Currency
	Date          civil.Date
}

func NewHistoricalRateRequest(base, quote string, date civil.Date) HistoricalRateRequest {
	return HistoricalRateRequest{BaseCurrency: Currency(base), QuoteCurrency: Currency(quote), Date: date}
}

func (r HistoricalRateRequest) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrency: r.BaseCurrency, QuoteCurrency: r.QuoteCurrency}
}
