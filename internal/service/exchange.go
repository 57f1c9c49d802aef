package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/internal/domain/ports"
	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/pkg/logger"
	"openexchangerates-service/pkg/utils"
)

var _ ports.RateService = (*ExchangeService)(nil)

type Config struct {
	BaseURL string
	AppID   string
	Tier    model.AccountTier
	// Symbols is sent as the provider's symbols filter. Nil sends none.
	Symbols []string
	// CoalesceMisses lets concurrent misses for the same URL share one
	// provider call.
	CoalesceMisses bool
}

// ExchangeService answers rate requests from the provider, going through the
// rate cache first. It holds no mutable state and is safe for concurrent use.
type ExchangeService struct {
	endpoint Endpoint
	tier     model.AccountTier
	fetcher  ports.RateFetcher
	cache    ports.RateCache
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	coalesce bool
	group    singleflight.Group
}

func NewExchangeService(cfg Config, fetcher ports.RateFetcher, cache ports.RateCache, log *logger.Logger, m *metrics.Metrics) *ExchangeService {
	var symbols []string
	if cfg.Symbols != nil {
		symbols = append(make([]string, 0, len(cfg.Symbols)), cfg.Symbols...)
	}

	return &ExchangeService{
		endpoint: Endpoint{BaseURL: cfg.BaseURL, AppID: cfg.AppID, Symbols: symbols},
		tier:     cfg.Tier,
		fetcher:  fetcher,
		cache:    cache,
		log:      log,
		metrics:  m,
		now:      time.Now,
		coalesce: cfg.CoalesceMisses,
	}
}

func (s *ExchangeService) Supports(request model.RateRequest) bool {
	r, ok := classify(request)
	return ok && IsEligible(s.tier, r.pair.BaseCurrency)
}

func (s *ExchangeService) Send(ctx context.Context, request model.RateRequest) (model.RateResponse, error) {
	r, ok := classify(request)
	if !ok {
		err := model.NewRequestNotSupportedError(request)
		s.log.Warn("Unsupported rate request", "type", err.TypeName)
		s.metrics.RateRequest(kindUnsupported, "failure")
		return model.Failure{Err: err}, nil
	}

	if !IsEligible(s.tier, r.pair.BaseCurrency) {
		s.log.Info("Base currency not available on account tier", "pair", r.pair.String(), "tier", s.tier.String())
		s.metrics.RateRequest(r.kind, "failure")
		return model.Failure{Err: r.notFound()}, nil
	}

	effective := r.date
	if r.kind == kindCurrent {
		effective = utils.Today(s.now())
	}

	table, err := s.retrieve(ctx, r.url(s.endpoint))
	if err != nil {
		s.log.Error("Failed to retrieve exchange rates", "pair", r.pair.String(), "kind", r.kind, "error", err)
		s.metrics.RateRequest(r.kind, "error")
		return nil, fmt.Errorf("retrieve %s rates for %s: %w", r.kind, r.pair, err)
	}

	response := resolve(table, r, effective)
	if _, ok := response.(model.Success); ok {
		s.metrics.RateRequest(r.kind, "success")
	} else {
		s.metrics.RateRequest(r.kind, "failure")
	}
	return response, nil
}

func (s *ExchangeService) retrieve(ctx context.Context, url string) (model.RateTable, error) {
	if table, found := s.cache.Get(ctx, url); found {
		return table, nil
	}

	if !s.coalesce {
		return s.fetchAndStore(ctx, url)
	}

	// Followers share this call, so it must not end when the first caller does.
	v, err, shared := s.group.Do(url, func() (any, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug("Shared in-flight provider call")
	}
	return v.(model.RateTable), nil
}

func (s *ExchangeService) fetchAndStore(ctx context.Context, url string) (model.RateTable, error) {
	table, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, url, table)
	return table, nil
}
