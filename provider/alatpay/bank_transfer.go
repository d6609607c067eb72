package alatpay

import (
	"context"
	"net/url"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const (
	endpointVirtualAccount = "/bank-transfer/api/v1/bankTransfer/virtualAccount"
	endpointTransactions   = "/bank-transfer/api/v1/bankTransfer/transactions/"

	defaultTransactionStatusMessage = "Success"
)

var virtualAccountExpectation = provider.Expectation{
	Message:      "Business fetched locally",
	ErrorMessage: "Failed to create virtual account",
	ErrorCode:    400,
}

// BankTransfer generates virtual accounts and looks up their transactions.
type BankTransfer struct {
	transport  provider.Transport
	schema     *provider.Schema
	businessID string
	logger     zerolog.Logger

	// nil disables the success check on ConfirmTransactionStatus.
	statusExpectation *provider.Expectation
}

// GenerateVirtualAccount creates a virtual account for the payer.
func (b *BankTransfer) GenerateVirtualAccount(ctx context.Context, req AccountRequest) (*AccountResult, error) {
	result, err := post[AccountResult](ctx, b.transport, b.schema, b.businessID, endpointVirtualAccount, req, virtualAccountExpectation, b.logger)
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("transactionId", result.Data.TransactionID).
		Str("orderId", result.Data.OrderID).
		Msg("virtual account generation success")
	return result, nil
}

// ConfirmTransactionStatus fetches a transaction by id. The response message
// is only checked when the client was configured with AssertTransactionStatus.
func (b *BankTransfer) ConfirmTransactionStatus(ctx context.Context, transactionID string) (*AccountResult, error) {
	if err := provider.Require("TransactionStatus", "transactionId", transactionID); err != nil {
		return nil, err
	}

	body, err := b.transport.Get(ctx, endpointTransactions+url.PathEscape(transactionID), nil)
	if err != nil {
		return nil, err
	}

	if b.statusExpectation != nil {
		if err := provider.AssertSuccess(body, *b.statusExpectation, map[string]any{"transactionId": transactionID}); err != nil {
			logGatewayFailure(b.logger, err)
			return nil, err
		}
	}

	result, err := provider.DecodeResult[AccountResult](b.schema, body)
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("transactionId", transactionID).
		Str("status", result.Data.Status).
		Msg("transaction status retrieved")
	return result, nil
}

func transactionStatusExpectation(message string) *provider.Expectation {
	if message == "" {
		message = defaultTransactionStatusMessage
	}
	return &provider.Expectation{
		Message:      message,
		ErrorMessage: "Couldn't Confirm Transaction Status",
		ErrorCode:    400,
	}
}
