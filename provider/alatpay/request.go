package alatpay

import (
	"context"
	"errors"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

// post validates req, sends it with the business id injected and decodes the
// asserted response into T.
func post[T any](ctx context.Context, transport provider.Transport, schema *provider.Schema, businessID, path string, req any, want provider.Expectation, logger zerolog.Logger) (*T, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}

	payload, err := provider.ToPayload(req)
	if err != nil {
		return nil, err
	}
	payload["businessId"] = businessID

	body, err := transport.Post(ctx, payload, path)
	if err != nil {
		return nil, err
	}

	if err := provider.AssertSuccess(body, want, nil); err != nil {
		logGatewayFailure(logger, err)
		return nil, err
	}

	return provider.DecodeResult[T](schema, body)
}

func logGatewayFailure(logger zerolog.Logger, err error) {
	var gwErr *provider.GatewayError
	if errors.As(err, &gwErr) {
		logger.Warn().Object("error", gwErr).Msg(gwErr.Message)
	}
}
