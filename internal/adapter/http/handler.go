package http

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/internal/domain/ports"
	"openexchangerates-service/pkg/logger"
	"openexchangerates-service/pkg/utils"
)

// MaxRangeDays caps the historical range endpoint. Each day is one Send.
const MaxRangeDays = 31

var (
	errMissingPair   = errors.New("missing required parameters: from and to")
	errMissingDate   = errors.New("missing required parameter: date")
	errMissingRange  = errors.New("missing required parameters: start_date and end_date")
	errInvalidAmount = errors.New("invalid amount parameter")
)

type Handler struct {
	service ports.RateService
	log     *logger.Logger
	style   ResponseStyle
}

func NewHandler(service ports.RateService, log *logger.Logger, style ResponseStyle) *Handler {
	if style == "" {
		style = StyleCurrent
	}
	return &Handler{
		service: service,
		log:     log,
		style:   style,
	}
}

func currencyParam(c *fiber.Ctx, name string) model.Currency {
	return model.Currency(strings.ToUpper(strings.TrimSpace(c.Query(name))))
}

func pairParams(c *fiber.Ctx) (model.Currency, model.Currency, error) {
	from := currencyParam(c, "from")
	to := currencyParam(c, "to")
	if from == "" || to == "" {
		return "", "", errMissingPair
	}
	return from, to, nil
}

// optionalDate returns nil when the parameter is absent.
func optionalDate(c *fiber.Ctx, name string) (*civil.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	date, err := utils.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func buildRequest(from, to model.Currency, date *civil.Date) model.RateRequest {
	if date == nil {
		return model.NewCurrentRateRequest(from.String(), to.String())
	}
	return model.NewHistoricalRateRequest(from.String(), to.String(), *date)
}

// send turns a Failure into its error so handlers map both paths the same way.
func (h *Handler) send(c *fiber.Ctx, request model.RateRequest) (model.Success, error) {
	response, err := h.service.Send(c.UserContext(), request)
	if err != nil {
		return model.Success{}, err
	}
	switch r := response.(type) {
	case model.Success:
		return r, nil
	case model.Failure:
		return model.Success{}, r.Err
	default:
		return model.Success{}, errors.New("unexpected rate response")
	}
}

func (h *Handler) GetLatestRate(c *fiber.Ctx) error {
	from, to, err := pairParams(c)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}

	success, err := h.send(c, model.NewCurrentRateRequest(from.String(), to.String()))
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return h.sendSuccess(c, RateData{
		From: from.String(),
		To:   to.String(),
		Rate: success.Rate,
		Date: utils.FormatDate(success.Date),
	})
}

func (h *Handler) GetHistoricalRate(c *fiber.Ctx) error {
	from, to, err := pairParams(c)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	date, err := optionalDate(c, "date")
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if date == nil {
		return h.sendError(c, fiber.StatusBadRequest, errMissingDate.Error())
	}

	success, err := h.send(c, buildRequest(from, to, date))
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return h.sendSuccess(c, RateData{
		From: from.String(),
		To:   to.String(),
		Rate: success.Rate,
		Date: utils.FormatDate(success.Date),
	})
}

// GetHistoricalRange sends one historical request per day. Days without a
// rate are left out of the result; provider faults abort the whole range.
func (h *Handler) GetHistoricalRange(c *fiber.Ctx) error {
	from, to, err := pairParams(c)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	start, err := optionalDate(c, "start_date")
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	end, err := optionalDate(c, "end_date")
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if start == nil || end == nil {
		return h.sendError(c, fiber.StatusBadRequest, errMissingRange.Error())
	}

	dates, err := utils.DateRange(*start, *end, MaxRangeDays)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}

	if !h.service.Supports(model.NewHistoricalRateRequest(from.String(), to.String(), *start)) {
		return h.handleServiceError(c, &model.RateNotFoundError{Pair: model.CurrencyPair{BaseCurrency: from, QuoteCurrency: to}})
	}

	result := RangeData{
		From:  from.String(),
		To:    to.String(),
		Rates: make(map[string]decimal.Decimal, len(dates)),
	}
	for i := range dates {
		success, err := h.send(c, buildRequest(from, to, &dates[i]))
		if errors.Is(err, model.ErrRateNotFound) {
			continue
		}
		if err != nil {
			return h.handleServiceError(c, err)
		}
		result.Rates[utils.FormatDate(dates[i])] = success.Rate
	}

	return h.sendSuccess(c, result)
}

func (h *Handler) Convert(c *fiber.Ctx) error {
	from, to, err := pairParams(c)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}

	amount := decimal.NewFromInt(1)
	if raw := c.Query("amount"); raw != "" {
		amount, err = decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			return h.sendError(c, fiber.StatusBadRequest, errInvalidAmount.Error())
		}
	}

	date, err := optionalDate(c, "date")
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}

	success, err := h.send(c, buildRequest(from, to, date))
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return h.sendSuccess(c, ConversionData{
		From:   from.String(),
		To:     to.String(),
		Amount: amount,
		Rate:   success.Rate,
		Result: amount.Mul(success.Rate),
		Date:   utils.FormatDate(success.Date),
	})
}

func (h *Handler) Supports(c *fiber.Ctx) error {
	from, to, err := pairParams(c)
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}
	date, err := optionalDate(c, "date")
	if err != nil {
		return h.sendError(c, fiber.StatusBadRequest, err.Error())
	}

	return h.sendSuccess(c, SupportData{Supported: h.service.Supports(buildRequest(from, to, date))})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("OK")
}

func (h *Handler) handleServiceError(c *fiber.Ctx, err error) error {
	statusCode := fiber.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, model.ErrRateNotFound):
		statusCode = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, model.ErrRequestNotSupported):
		statusCode = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, model.ErrHTTPFailure), errors.Is(err, model.ErrMalformedResponse):
		statusCode = fiber.StatusBadGateway
		message = "rate provider failure"
	}

	if statusCode >= fiber.StatusInternalServerError {
		h.log.Error("Service error", "error", err, "status_code", statusCode, "request_id", requestID(c))
	} else {
		h.log.Debug("Rate unavailable", "error", err, "status_code", statusCode, "request_id", requestID(c))
	}
	return h.sendError(c, statusCode, message)
}
