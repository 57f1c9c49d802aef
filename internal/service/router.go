package service

import (
	"cloud.google.com/go/civil"

	"openexchangerates-service/internal/domain/model"
)

const (
	kindCurrent     = "current"
	kindHistorical  = "historical"
	kindUnsupported = "unsupported"
)

type route struct {
	kind string
	pair model.CurrencyPair
	date civil.Date
}

// classify maps a request onto one of the supported variants.
func classify(request model.RateRequest) (route, bool) {
	switch r := request.(type) {
	case model.CurrentRateRequest:
		return route{kind: kindCurrent, pair: r.Pair()}, true
	case *model.CurrentRateRequest:
		if r != nil {
			return route{kind: kindCurrent, pair: r.Pair()}, true
		}
	case model.HistoricalRateRequest:
		return route{kind: kindHistorical, pair: r.Pair(), date: r.Date}, true
	case *model.HistoricalRateRequest:
		if r != nil {
			return route{kind: kindHistorical, pair: r.Pair(), date: r.Date}, true
		}
	}
	return route{kind: kindUnsupported}, false
}

func (r route) url(e Endpoint) string {
	if r.kind == kindHistorical {
		return e.Historical(r.pair.BaseCurrency, r.date)
	}
	return e.Latest(r.pair.BaseCurrency)
}

func (r route) notFound() *model.RateNotFoundError {
	err := &model.RateNotFoundError{Pair: r.pair}
	if r.kind == kindHistorical {
		date := r.date
		err.Date = &date
	}
	return err
}
