package paystack

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const (
	endpointInitialize          = "/transaction/initialize"
	endpointVerify              = "/transaction/verify/"
	endpointTransactions        = "/transaction"
	endpointChargeAuthorization = "/transaction/charge_authorization"
	endpointTimeline            = "/transaction/timeline/"
	endpointTotals              = "/transaction/totals"
	endpointExport              = "/transaction/export"
	endpointPartialDebit        = "/transaction/partial_debit"

	// errorCode is used for every Paystack business failure.
	errorCode = 403
)

var (
	initializeExpectation   = expect("Authorization URL created", "Transaction Authorization failed")
	verifyExpectation       = expect("Verification successful", "Transaction Verification failed.")
	listExpectation         = expect("Transactions retrieved", "Transactions retrieval failed.")
	fetchExpectation        = expect("Transaction retrieved", "Transaction retrieval failed.")
	chargeExpectation       = expect("Charge attempted", "Charge attempt failed.")
	timelineExpectation     = expect("Timeline retrieved", "Transaction Timeline retrieval failed.")
	totalsExpectation       = expect("Transaction totals", "Transactions totals retrieval failed.")
	exportExpectation       = expect("Export successful", "Transactions Export failed.")
	partialDebitExpectation = expect("Charge attempted", "Partial Debit failed.")
)

func expect(message, errorMessage string) provider.Expectation {
	return provider.Expectation{Message: message, ErrorMessage: errorMessage, ErrorCode: errorCode}
}

// TransactionHandler exposes the Paystack transactions API.
type TransactionHandler struct {
	transport provider.Transport
	schema    *provider.Schema
	logger    zerolog.Logger
}

// Initialize creates a transaction and returns its checkout URL.
func (h *TransactionHandler) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	result, err := post[InitializeResult](ctx, h, endpointInitialize, req, initializeExpectation)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("reference", result.Data.Reference).Msg("authorization URL created")
	return result, nil
}

// Verify confirms the status of a transaction by reference.
func (h *TransactionHandler) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if err := provider.Require("VerifyRequest", "reference", reference); err != nil {
		return nil, err
	}

	result, err := get[VerifyResult](ctx, h, endpointVerify+url.PathEscape(reference), nil, verifyExpectation, map[string]any{"reference": reference})
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("reference", result.Data.Reference).Str("status", result.Data.Status).Msg("transaction verification success")
	return result, nil
}

// List returns a page of transactions.
func (h *TransactionHandler) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if err := h.schema.Validate(&params); err != nil {
		return nil, err
	}

	result, err := get[ListResult](ctx, h, endpointTransactions, params.Query(), listExpectation, nil)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Int("count", len(result.Data)).Msg("transactions retrieved")
	return result, nil
}

// Fetch returns a single transaction by id.
func (h *TransactionHandler) Fetch(ctx context.Context, id int64) (*FetchResult, error) {
	if id <= 0 {
		return nil, &provider.ValidationError{
			Type:       "FetchRequest",
			Violations: []provider.FieldViolation{{Field: "id", Constraint: "gte", Param: "1"}},
		}
	}

	result, err := get[FetchResult](ctx, h, endpointTransactions+"/"+strconv.FormatInt(id, 10), nil, fetchExpectation, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	h.logger.Info().Int64("id", id).Msg("transaction retrieved")
	return result, nil
}

// ChargeAuthorization charges a reusable authorization.
func (h *TransactionHandler) ChargeAuthorization(ctx context.Context, req ChargeAuthorizationRequest) (*ChargeResult, error) {
	result, err := post[ChargeResult](ctx, h, endpointChargeAuthorization, req, chargeExpectation)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("reference", result.Data.Reference).Str("status", result.Data.Status).Msg("charge attempted")
	return result, nil
}

// ViewTimeline returns the checkout log of a transaction by id or reference.
func (h *TransactionHandler) ViewTimeline(ctx context.Context, idOrReference string) (*TimelineResult, error) {
	if err := provider.Require("TimelineRequest", "idOrReference", idOrReference); err != nil {
		return nil, err
	}

	result, err := get[TimelineResult](ctx, h, endpointTimeline+url.PathEscape(idOrReference), nil, timelineExpectation, map[string]any{"idOrReference": idOrReference})
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("idOrReference", idOrReference).Msg("timeline retrieved")
	return result, nil
}

// Totals returns the total amount received for a date range.
func (h *TransactionHandler) Totals(ctx context.Context, params RangeParams) (*TotalsResult, error) {
	if err := h.schema.Validate(&params); err != nil {
		return nil, err
	}

	result, err := get[TotalsResult](ctx, h, endpointTotals, params.Query(), totalsExpectation, nil)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Int64("totalTransactions", result.Data.TotalTransactions).Msg("transaction totals retrieved")
	return result, nil
}

// Export requests a CSV export of transactions.
func (h *TransactionHandler) Export(ctx context.Context, params ExportParams) (*ExportResult, error) {
	if err := h.schema.Validate(&params); err != nil {
		return nil, err
	}

	result, err := get[ExportResult](ctx, h, endpointExport, params.Query(), exportExpectation, nil)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Msg("transactions export successful")
	return result, nil
}

// PartialDebit debits part of an amount from an authorization.
func (h *TransactionHandler) PartialDebit(ctx context.Context, req PartialDebitRequest) (*PartialDebitResult, error) {
	result, err := post[PartialDebitResult](ctx, h, endpointPartialDebit, req, partialDebitExpectation)
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("reference", result.Data.Reference).Msg("partial debit attempted")
	return result, nil
}

func post[T any](ctx context.Context, h *TransactionHandler, path string, req any, want provider.Expectation) (*T, error) {
	if err := h.schema.Validate(req); err != nil {
		return nil, err
	}

	body, err := h.transport.Post(ctx, req, path)
	if err != nil {
		return nil, err
	}

	return decode[T](h, body, want, nil)
}

func get[T any](ctx context.Context, h *TransactionHandler, path string, params map[string]string, want provider.Expectation, extra map[string]any) (*T, error) {
	body, err := h.transport.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	return decode[T](h, body, want, extra)
}

func decode[T any](h *TransactionHandler, body provider.Body, want provider.Expectation, extra map[string]any) (*T, error) {
	if err := provider.AssertSuccess(body, want, extra); err != nil {
		var gwErr *provider.GatewayError
		if errors.As(err, &gwErr) {
			h.logger.Warn().Object("error", gwErr).Msg(gwErr.Message)
		}
		return nil, err
	}

	return provider.DecodeResult[T](h.schema, body)
}
