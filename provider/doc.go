// Package provider holds the pieces every payment gateway adapter in
// PayBridge is built from.
//
// An adapter operation always follows the same pipeline:
//
//  1. validate the request value against its Schema
//  2. send it through a Transport (one HTTP round trip, no retries)
//  3. check the response's message field against the operation's success
//     literal with AssertSuccess
//  4. decode and validate the body into a typed result with DecodeResult
//
// Any step can fail, and each failure has its own error kind:
//
//   - *ValidationError (ErrValidation): a request or response value broke a constraint
//   - *NetworkError (ErrNetwork): connection, timeout, unreadable or malformed body
//   - *TransportError (ErrTransport): the provider answered with a non-2xx status
//   - *GatewayError (ErrGateway): 2xx, but the message literal did not match
//   - *CardNotEligibleError (ErrCardNotEligible): the card flow guard failed
//   - *ConfigurationError (ErrConfiguration): a client was built with missing settings
//
// Use errors.Is or errors.As to branch on them:
//
//	result, err := client.BankTransfers().GenerateVirtualAccount(ctx, req)
//	var gwErr *provider.GatewayError
//	if errors.As(err, &gwErr) {
//	    log.Warn().Int("code", gwErr.Code).Msg(gwErr.Message)
//	}
//
// # Masking
//
// Context values carried by a GatewayError are raw in memory but masked
// in every textual rendering. See Mask.
//
// # Constraint sets
//
// Schemas are assembled from struct tags plus optional ConstraintSet
// overrides, so one provider can serve several API versions whose bounds
// differ for the same field.
//
// # Registry
//
// Providers register a Factory under their name from an init function.
// Importing a provider package is enough to make it available:
//
//	import _ "github.com/mstgnz/paybridge/provider/alatpay"
//
//	gw, err := provider.DefaultRegistry.Create("alatpay", settings, logger)
package provider
