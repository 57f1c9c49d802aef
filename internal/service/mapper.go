package service

import (
	"cloud.google.com/go/civil"

	"openexchangerates-service/internal/domain/model"
)

func resolve(table model.RateTable, r route, effective civil.Date) model.RateResponse {
	rate, found := table[r.pair.QuoteCurrency.String()]
	if !found {
		return model.Failure{Err: r.notFound()}
	}
	return model.Success{Rate: rate, Date: effective}
}
