package service

import (
	"net/url"
	"strings"

	"cloud.google.com/go/civil"

	"openexchangerates-service/internal/domain/model"
)

const DefaultBaseURL = "https://openexchangerates.org/api"

// Endpoint builds provider URLs. Identical inputs always produce identical
// strings, which the rate cache relies on for its keys.
type Endpoint struct {
	BaseURL string
	AppID   string
	// Symbols restricts the returned rates. Nil means no restriction.
	Symbols []string
}

func (e Endpoint) Latest(base model.Currency) string {
	return e.baseURL() + "/latest.json?" + e.query(base)
}

func (e Endpoint) Historical(base model.Currency, date civil.Date) string {
	return e.baseURL() + "/historical/" + date.String() + ".json?" + e.query(base)
}

func (e Endpoint) baseURL() string {
	if e.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(e.BaseURL, "/")
}

// query keeps the parameter order fixed: app_id, base, symbols.
func (e Endpoint) query(base model.Currency) string {
	var b strings.Builder
	b.WriteString("app_id=")
	b.WriteString(escape(e.AppID))
	b.WriteString("&base=")
	b.WriteString(escape(base.String()))
	if e.Symbols != nil {
		b.WriteString("&symbols=")
		b.WriteString(escape(strings.Join(e.Symbols, ",")))
	}
	return b.String()
}

// escape percent-encodes per RFC 3986, so a space becomes %20 rather than +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
