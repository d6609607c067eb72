// Package paybridge connects applications to African payment gateways
// through one consistent adapter protocol.
//
// # Overview
//
// Every gateway wraps its responses in the same envelope:
//
//	{"status": true, "message": "Verification successful", "data": {...}}
//
// but each operation signals success with its own message literal. PayBridge
// adapters validate the request, send it over a single HTTP round trip, check
// the literal, and decode the data into a typed, validated result. Anything
// else surfaces as one of the error kinds in package provider.
//
// # Supported Providers
//
//   - ALATPay: card payments (initialize, eligibility check, authenticate)
//     and bank transfers (virtual accounts, transaction status)
//   - Paystack: the transactions API (initialize, verify, list, fetch,
//     charge authorization, timeline, totals, export, partial debit)
//
// # Usage as a library
//
//	import (
//	    "github.com/mstgnz/paybridge/provider/paystack"
//	)
//
//	client, err := paystack.New(paystack.Config{
//	    BaseURL:   paystack.DefaultBaseURL,
//	    SecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	result, err := client.Transactions().Verify(ctx, "T1234567")
//
// # Usage as a service
//
// cmd/main.go serves every enabled adapter over HTTP:
//
//	POST /v1/alatpay/cards/initialize
//	POST /v1/alatpay/cards/authenticate
//	POST /v1/alatpay/virtual-accounts
//	GET  /v1/alatpay/transactions/{transactionID}
//	POST /v1/paystack/transactions/initialize
//	GET  /v1/paystack/transactions/verify/{reference}
//	GET  /v1/paystack/transactions
//	GET  /v1/paystack/transactions/{id}
//	POST /v1/paystack/transactions/charge-authorization
//	GET  /v1/paystack/transactions/timeline/{idOrReference}
//	GET  /v1/paystack/transactions/totals
//	GET  /v1/paystack/transactions/export
//	POST /v1/paystack/transactions/partial-debit
//	GET  /health
//
// # Configuration
//
// Settings come from a .env file or the environment:
//
//	APP_PORT=9999
//	LOG_LEVEL=info
//	ENABLED_PROVIDERS=alatpay,paystack
//	PROVIDER_TIMEOUT=30s
//
//	ALATPAY_BASE_URL=https://apibox.alatpay.ng
//	ALATPAY_SUBSCRIPTION_KEY=...
//	ALATPAY_BUSINESS_ID=...
//	ALATPAY_SCHEMA_VERSION=v1
//
//	PAYSTACK_SECRET_KEY=sk_test_...
//
//	ENABLE_OPENSEARCH_LOGGING=false
//	OPENSEARCH_URL=http://localhost:9200
//
// A provider whose required settings are missing is skipped at startup.
//
// # Adding a Provider
//
//  1. Create a package under provider/ with a Client implementing provider.Gateway
//  2. Declare request and result types with validate tags
//  3. Implement each operation on top of provider.Transport, AssertSuccess and DecodeResult
//  4. Register a factory in the package's init function
//  5. Add tests against an httptest server
package paybridge
