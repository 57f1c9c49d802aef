package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	metricsPath     = "/metrics"
)

type Router struct {
	handler  *Handler
	log      *logger.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewRouter(handler *Handler, log *logger.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{
		handler:  handler,
		log:      log,
		metrics:  m,
		gatherer: gatherer,
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func (r *Router) requestIDMiddleware(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(RequestIDHeader, id)
	return c.Next()
}

func (r *Router) loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
			c.Status(fiber.StatusInternalServerError)
		}
	}

	duration := time.Since(start)
	statusCode := c.Response().StatusCode()

	path := c.Route().Path
	if path != metricsPath {
		r.metrics.ObserveHTTP(path, c.Method(), statusCode, duration)
	}

	r.log.Info("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"query", string(c.Request().URI().QueryString()),
		"status", statusCode,
		"duration", duration,
		"remote_addr", c.IP(),
		"user_agent", c.Get(fiber.HeaderUserAgent),
		"request_id", requestID(c),
	)
	return nil
}

func (r *Router) SetupRoutes() *fiber.App {
	app := fiber.New(fiber.Config{
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			statusCode := fiber.StatusInternalServerError
			message := "internal server error"
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				statusCode = fiberErr.Code
				message = fiberErr.Message
			}
			return r.handler.sendError(c, statusCode, message)
		},
	})

	app.Use(r.requestIDMiddleware)
	app.Use(r.loggingMiddleware)
	app.Use(recover.New())

	api := app.Group("/api/v1")
	api.Get("/rates", r.handler.GetLatestRate)
	api.Get("/historical", r.handler.GetHistoricalRate)
	api.Get("/historical/range", r.handler.GetHistoricalRange)
	api.Get("/convert", r.handler.Convert)
	api.Get("/supports", r.handler.Supports)

	app.Get("/health", r.handler.Health)
	app.Get(metricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	return app
}
