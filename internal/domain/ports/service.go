package ports

import (
	"context"

	"openexchangerates-service/internal/domain/model"
)

type RateService interface {
	// Send returns a Success or Failure for the request. Provider faults
	// (HTTP failures, malformed bodies, transport errors) come back as error.
	Send(ctx context.Context, request model.RateRequest) (model.RateResponse, error)
	// Supports reports whether Send could answer the request, without I/O.
	Supports(request model.RateRequest) bool
}
