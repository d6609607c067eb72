// Package handler exposes the provider adapters over HTTP.
//
// Each handler depends on a small consumer-side interface rather than on a
// concrete client, so tests can replace the provider with a stub:
//
//	cards := alatpayClient.Cards()
//	transfers := alatpayClient.BankTransfers()
//	h := handler.NewAlatPayHandler(cards, transfers, logger)
//	r.Route("/v1/alatpay", h.Routes)
//
// Every response uses the response.Response envelope. Adapter errors are
// mapped to HTTP statuses as follows:
//
//   - ValidationError: 400 Bad Request, data lists the failed constraints
//   - CardNotEligibleError: 422 Unprocessable Entity
//   - GatewayError: the error's code, 502 when the code is not an HTTP error status
//   - TransportError: 502 Bad Gateway
//   - NetworkError: 504 Gateway Timeout
//   - ConfigurationError: 503 Service Unavailable
//
// Gateway error context is always rendered masked.
package handler
