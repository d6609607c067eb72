package alatpay

import (
	"context"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const (
	endpointCardInitialize   = "/paymentcard/api/v1/paymentCard/mc/initialize"
	endpointCardAuthenticate = "/paymentcard/api/v1/paymentCard/mc/authenticate"

	// RecommendationProceed is the only gateway recommendation that allows
	// a card to be authenticated.
	RecommendationProceed = "PROCEED"

	cardNotEligibleMessage = "This card does not meet the required security validations, and so this card cannot be used to perform this transaction at this time."
)

var (
	initiateExpectation = provider.Expectation{
		Message:      "Success",
		ErrorMessage: "Couldn't Initiate Card Payment",
		ErrorCode:    400,
	}
	authenticateExpectation = provider.Expectation{
		Message:      "Success",
		ErrorMessage: "Card Authentication Was Not Successful",
		ErrorCode:    400,
	}
)

// CardPayment runs the two-step card flow: Initiate, then Authenticate when
// the gateway recommends proceeding.
type CardPayment struct {
	transport  provider.Transport
	schema     *provider.Schema
	businessID string
	logger     zerolog.Logger
}

// Initiate registers the card with the gateway and returns its recommendation.
func (c *CardPayment) Initiate(ctx context.Context, req InitRequest) (*InitResult, error) {
	result, err := post[InitResult](ctx, c.transport, c.schema, c.businessID, endpointCardInitialize, req, initiateExpectation, c.logger)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("transactionId", result.Data.TransactionID).
		Str("gatewayRecommendation", result.Data.GatewayRecommendation).
		Msg("card initiation success")
	return result, nil
}

// CheckEligibility reports whether init allows authentication. It returns nil
// for an eligible card and a *provider.CardNotEligibleError otherwise.
func (c *CardPayment) CheckEligibility(init *InitResult) error {
	if init == nil {
		return provider.Require("InitResult", "init", "")
	}
	if init.Data.GatewayRecommendation == RecommendationProceed {
		return nil
	}

	return &provider.CardNotEligibleError{
		GatewayError: provider.NewGatewayError(cardNotEligibleMessage, 400, map[string]any{
			"gatewayRecommendation": init.Data.GatewayRecommendation,
			"transactionId":         init.Data.TransactionID,
		}),
		Recommendation: init.Data.GatewayRecommendation,
		TransactionID:  init.Data.TransactionID,
	}
}

// Authenticate submits the full card and customer details. It makes no
// network call unless init carries the PROCEED recommendation.
func (c *CardPayment) Authenticate(ctx context.Context, userData UserData, init *InitResult) (*AuthResult, error) {
	if err := c.CheckEligibility(init); err != nil {
		c.logger.Warn().Err(err).Msg("card not eligible for authentication")
		return nil, err
	}

	result, err := post[AuthResult](ctx, c.transport, c.schema, c.businessID, endpointCardAuthenticate, userData, authenticateExpectation, c.logger)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("transactionId", result.Data.TransactionID).
		Msg("card authentication success")
	return result, nil
}
