package cache

import (
	"context"
	"time"

	"openexchangerates-service/internal/domain/model"
)

// NullStore never holds anything; every lookup is a miss.
type NullStore struct{}

func (NullStore) Get(context.Context, string) (model.RateTable, bool, error) {
	return nil, false, nil
}

func (NullStore) Set(context.Context, string, model.RateTable, time.Duration) error {
	return nil
}
