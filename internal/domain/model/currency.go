package model

import "fmt"

type Currency string

// USD is the only base currency the free tier may request.
const USD Currency = "USD"

func (c Currency) String() string {
	return string(c)
}

type CurrencyPair struct {
	BaseCurrency  Currency `json:"base_currency"`
	QuoteCurrency Currency `json:"quote_currency"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", p.BaseCurrency, p.QuoteCurrency)
}
