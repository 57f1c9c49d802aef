package repository

// Identity sent to the provider. Set at build time with -ldflags -X.
var (
	Product       = "openexchangerates-service"
	Version       = "dev"
	ClientName    = "OpenExchangeRatesClient"
	ClientVersion = "1.0.0"
)

// UserAgent returns "<Product>/<Version> <ClientName>/<ClientVersion>",
// followed by existing when the request already carried one.
func UserAgent(existing string) string {
	ua := Product + "/" + Version + " " + ClientName + "/" + ClientVersion
	if existing != "" {
		ua += " " + existing
	}
	return ua
}
