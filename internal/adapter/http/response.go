package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ResponseStyle selects the JSON body layout.
type ResponseStyle string

const (
	// StyleCurrent wraps every body in Response.
	StyleCurrent ResponseStyle = "current"
	// StyleLegacy writes the data object itself, or {"error": ...}.
	StyleLegacy ResponseStyle = "legacy"
)

func ParseResponseStyle(s string) (ResponseStyle, error) {
	switch ResponseStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleCurrent:
		return StyleCurrent, nil
	case StyleLegacy:
		return StyleLegacy, nil
	default:
		return "", fmt.Errorf("unknown response style %q", s)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type legacyError struct {
	Error string `json:"error"`
}

type RateData struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date"`
}

type ConversionData struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Result decimal.Decimal `json:"result"`
	Date   string          `json:"date"`
}

// RangeData holds one rate per date that had one, keyed YYYY-MM-DD.
type RangeData struct {
	From  string                     `json:"from"`
	To    string                     `json:"to"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type SupportData struct {
	Supported bool `json:"supported"`
}

func (h *Handler) sendSuccess(c *fiber.Ctx, data any) error {
	if h.style == StyleLegacy {
		return c.Status(fiber.StatusOK).JSON(data)
	}
	return c.Status(fiber.StatusOK).JSON(Response{Success: true, Data: data})
}

func (h *Handler) sendError(c *fiber.Ctx, statusCode int, message string) error {
	if h.style == StyleLegacy {
		return c.Status(statusCode).JSON(legacyError{Error: message})
	}
	return c.Status(statusCode).JSON(Response{Success: false, Error: message})
}
