package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/provider/paystack"
	"github.com/rs/zerolog"
)

// TransactionService is the Paystack transactions API used by PaystackHandler.
type TransactionService interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error)
	List(ctx context.Context, params paystack.ListParams) (*paystack.ListResult, error)
	Fetch(ctx context.Context, id int64) (*paystack.FetchResult, error)
	ChargeAuthorization(ctx context.Context, req paystack.ChargeAuthorizationRequest) (*paystack.ChargeResult, error)
	ViewTimeline(ctx context.Context, idOrReference string) (*paystack.TimelineResult, error)
	Totals(ctx context.Context, params paystack.RangeParams) (*paystack.TotalsResult, error)
	Export(ctx context.Context, params paystack.ExportParams) (*paystack.ExportResult, error)
	PartialDebit(ctx context.Context, req paystack.PartialDebitRequest) (*paystack.PartialDebitResult, error)
}

// PaystackHandler handles Paystack related HTTP requests
type PaystackHandler struct {
	transactions TransactionService
	logger       zerolog.Logger
}

// NewPaystackHandler creates a new Paystack handler
func NewPaystackHandler(transactions TransactionService, logger zerolog.Logger) *PaystackHandler {
	return &PaystackHandler{
		transactions: transactions,
		logger:       logger.With().Str("provider", paystack.ProviderName).Logger(),
	}
}

// Routes registers the Paystack endpoints on r. Static segments are
// registered before {id} so chi prefers them.
func (h *PaystackHandler) Routes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/initialize", h.Initialize)
		r.Get("/verify/{reference}", h.Verify)
		r.Post("/charge-authorization", h.ChargeAuthorization)
		r.Get("/timeline/{idOrReference}", h.ViewTimeline)
		r.Get("/totals", h.Totals)
		r.Get("/export", h.Export)
		r.Post("/partial-debit", h.PartialDebit)
		r.Get("/{id}", h.Fetch)
	})
}

// Initialize creates a transaction and returns its authorization URL.
func (h *PaystackHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req paystack.InitializeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.transactions.Initialize(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// Verify confirms the status of a transaction by reference.
func (h *PaystackHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.transactions.Verify(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// List returns a filtered page of transactions.
func (h *PaystackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := queryReader{values: r.URL.Query()}
	params := paystack.ListParams{
		PerPage:    q.optInt("perPage"),
		Page:       q.optInt("page"),
		Customer:   q.optInt64("customer"),
		TerminalID: q.optString("terminalid"),
		Status:     q.optString("status"),
		From:       q.optTime("from"),
		To:         q.optTime("to"),
		Amount:     q.optInt64("amount"),
	}
	if q.err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameter", q.err)
		return
	}

	result, err := h.transactions.List(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, map[string]any{
		"transactions": result.Data,
		"meta":         result.Meta,
	})
}

// Fetch returns a single transaction by numeric id.
func (h *PaystackHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	result, err := h.transactions.Fetch(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// ChargeAuthorization charges a previously authorized card.
func (h *PaystackHandler) ChargeAuthorization(w http.ResponseWriter, r *http.Request) {
	var req paystack.ChargeAuthorizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.transactions.ChargeAuthorization(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// ViewTimeline returns the event history of a transaction.
func (h *PaystackHandler) ViewTimeline(w http.ResponseWriter, r *http.Request) {
	result, err := h.transactions.ViewTimeline(r.Context(), chi.URLParam(r, "idOrReference"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// Totals returns the transaction volume over a date range.
func (h *PaystackHandler) Totals(w http.ResponseWriter, r *http.Request) {
	q := queryReader{values: r.URL.Query()}
	params := q.rangeParams()
	if q.err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameter", q.err)
		return
	}

	result, err := h.transactions.Totals(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// Export returns the location of a CSV export of transactions.
func (h *PaystackHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := queryReader{values: r.URL.Query()}
	params := paystack.ExportParams{
		RangeParams: q.rangeParams(),
		Customer:    q.optInt64("customer"),
		Status:      q.optString("status"),
		Currency:    q.optString("currency"),
		Amount:      q.optInt64("amount"),
		Settled:     q.optBool("settled"),
		Settlement:  q.optInt64("settlement"),
		PaymentPage: q.optInt64("payment_page"),
	}
	if q.err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameter", q.err)
		return
	}

	result, err := h.transactions.Export(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// PartialDebit recovers part of an amount from an authorization.
func (h *PaystackHandler) PartialDebit(w http.ResponseWriter, r *http.Request) {
	var req paystack.PartialDebitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.transactions.PartialDebit(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// queryReader parses optional query values, keeping the first error.
type queryReader struct {
	values url.Values
	err    error
}

func (q *queryReader) raw(key string) (string, bool) {
	if q.err != nil || !q.values.Has(key) {
		return "", false
	}
	return q.values.Get(key), true
}

func (q *queryReader) fail(key string, err error) {
	q.err = fmt.Errorf("query parameter %q: %w", key, err)
}

func (q *queryReader) optString(key string) *string {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	return &v
}

func (q *queryReader) optInt(key string) *int {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &n
}

func (q *queryReader) optInt64(key string) *int64 {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &n
}

func (q *queryReader) optBool(key string) *bool {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &b
}

func (q *queryReader) optTime(key string) *time.Time {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &t
}

func (q *queryReader) rangeParams() paystack.RangeParams {
	return paystack.RangeParams{
		PerPage: q.optInt("perPage"),
		Page:    q.optInt("page"),
		From:    q.optTime("from"),
		To:      q.optTime("to"),
	}
}
