package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/provider"
	"github.com/mstgnz/paybridge/provider/paystack"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransactionService records the last call and answers with a canned
// envelope for every operation.
type mockTransactionService struct {
	called      string
	reference   string
	id          int64
	listParams  paystack.ListParams
	rangeParams paystack.RangeParams
	export      paystack.ExportParams
	err         error
}

func (m *mockTransactionService) Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error) {
	m.called = "Initialize"
	if m.err != nil {
		return nil, m.err
	}
	return &paystack.InitializeResult{Status: true, Message: "Authorization URL created", Data: paystack.InitializeData{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
	}}, nil
}

func (m *mockTransactionService) Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error) {
	m.called, m.reference = "Verify", reference
	return &paystack.VerifyResult{Status: true, Message: "Verification successful"}, m.err
}

func (m *mockTransactionService) List(ctx context.Context, params paystack.ListParams) (*paystack.ListResult, error) {
	m.called, m.listParams = "List", params
	return &paystack.ListResult{Status: true, Message: "Transactions retrieved", Meta: map[string]any{"total": 0}}, m.err
}

func (m *mockTransactionService) Fetch(ctx context.Context, id int64) (*paystack.FetchResult, error) {
	m.called, m.id = "Fetch", id
	return &paystack.FetchResult{Status: true, Message: "Transaction retrieved"}, m.err
}

func (m *mockTransactionService) ChargeAuthorization(ctx context.Context, req paystack.ChargeAuthorizationRequest) (*paystack.ChargeResult, error) {
	m.called = "ChargeAuthorization"
	return &paystack.ChargeResult{Status: true, Message: "Charge attempted"}, m.err
}

func (m *mockTransactionService) ViewTimeline(ctx context.Context, idOrReference string) (*paystack.TimelineResult, error) {
	m.called, m.reference = "ViewTimeline", idOrReference
	return &paystack.TimelineResult{Status: true, Message: "Timeline retrieved"}, m.err
}

func (m *mockTransactionService) Totals(ctx context.Context, params paystack.RangeParams) (*paystack.TotalsResult, error) {
	m.called, m.rangeParams = "Totals", params
	return &paystack.TotalsResult{Status: true, Message: "Transaction totals"}, m.err
}

func (m *mockTransactionService) Export(ctx context.Context, params paystack.ExportParams) (*paystack.ExportResult, error) {
	m.called, m.export = "Export", params
	return &paystack.ExportResult{Status: true, Message: "Export successful"}, m.err
}

func (m *mockTransactionService) PartialDebit(ctx context.Context, req paystack.PartialDebitRequest) (*paystack.PartialDebitResult, error) {
	m.called = "PartialDebit"
	return &paystack.PartialDebitResult{Status: true, Message: "Charge attempted"}, m.err
}

func newPaystackRouter(svc TransactionService) http.Handler {
	r := chi.NewRouter()
	r.Route("/v1/paystack", NewPaystackHandler(svc, zerolog.Nop()).Routes)
	return r
}

func TestPaystackHandler_Routing(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantCalled  string
		wantMessage string
	}{
		{"initialize", http.MethodPost, "/v1/paystack/transactions/initialize", `{"amount":"20000","email":"payer@example.com"}`, "Initialize", "Authorization URL created"},
		{"verify", http.MethodGet, "/v1/paystack/transactions/verify/ref-001", "", "Verify", "Verification successful"},
		{"list", http.MethodGet, "/v1/paystack/transactions", "", "List", "Transactions retrieved"},
		{"fetch", http.MethodGet, "/v1/paystack/transactions/4099260516", "", "Fetch", "Transaction retrieved"},
		{"charge authorization", http.MethodPost, "/v1/paystack/transactions/charge-authorization", `{"amount":"20000"}`, "ChargeAuthorization", "Charge attempted"},
		{"timeline", http.MethodGet, "/v1/paystack/transactions/timeline/ref-001", "", "ViewTimeline", "Timeline retrieved"},
		{"totals", http.MethodGet, "/v1/paystack/transactions/totals", "", "Totals", "Transaction totals"},
		{"export", http.MethodGet, "/v1/paystack/transactions/export", "", "Export", "Export successful"},
		{"partial debit", http.MethodPost, "/v1/paystack/transactions/partial-debit", `{"amount":"20000"}`, "PartialDebit", "Charge attempted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTransactionService{}
			w := httptest.NewRecorder()
			newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalled, svc.called)
			assert.Equal(t, tt.wantMessage, decodeResponse(t, w)["message"])
		})
	}
}

func TestPaystackHandler_PathParams(t *testing.T) {
	svc := &mockTransactionService{}
	router := newPaystackRouter(svc)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/paystack/transactions/4099260516", nil))
	assert.EqualValues(t, 4099260516, svc.id)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/paystack/transactions/verify/T1234", nil))
	assert.Equal(t, "T1234", svc.reference)
}

func TestPaystackHandler_FetchInvalidID(t *testing.T) {
	svc := &mockTransactionService{}
	w := httptest.NewRecorder()
	newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/paystack/transactions/not-a-number", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.called)
}

func TestPaystackHandler_ListQuery(t *testing.T) {
	svc := &mockTransactionService{}
	w := httptest.NewRecorder()
	newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/v1/paystack/transactions?perPage=20&page=2&status=success&from=2024-01-01T00:00:00Z&customer=42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	p := svc.listParams
	require.NotNil(t, p.PerPage)
	require.NotNil(t, p.Page)
	require.NotNil(t, p.Status)
	require.NotNil(t, p.From)
	require.NotNil(t, p.Customer)
	assert.Equal(t, 20, *p.PerPage)
	assert.Equal(t, 2, *p.Page)
	assert.Equal(t, "success", *p.Status)
	assert.True(t, p.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.EqualValues(t, 42, *p.Customer)
	assert.Nil(t, p.To)
	assert.Nil(t, p.Amount)

	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Contains(t, data, "meta")
}

func TestPaystackHandler_ExportQuery(t *testing.T) {
	svc := &mockTransactionService{}
	w := httptest.NewRecorder()
	newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/v1/paystack/transactions/export?perPage=50&settled=true&currency=NGN", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.export.PerPage)
	require.NotNil(t, svc.export.Settled)
	require.NotNil(t, svc.export.Currency)
	assert.Equal(t, 50, *svc.export.PerPage)
	assert.True(t, *svc.export.Settled)
	assert.Equal(t, "NGN", *svc.export.Currency)
}

func TestPaystackHandler_InvalidQuery(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"list page", "/v1/paystack/transactions?page=two"},
		{"list from", "/v1/paystack/transactions?from=yesterday"},
		{"totals perPage", "/v1/paystack/transactions/totals?perPage=-"},
		{"export settled", "/v1/paystack/transactions/export?settled=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTransactionService{}
			w := httptest.NewRecorder()
			newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid query parameter", decodeResponse(t, w)["message"])
			assert.Empty(t, svc.called)
		})
	}
}

func TestPaystackHandler_GatewayFailure(t *testing.T) {
	svc := &mockTransactionService{
		err: provider.NewGatewayError("Transaction Authorization failed", 403, map[string]any{"message": "Invalid key"}),
	}
	w := httptest.NewRecorder()
	newPaystackRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/paystack/transactions/initialize",
		strings.NewReader(`{"amount":"20000","email":"payer@example.com"}`)))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, "Transaction Authorization failed", body["message"])
	assert.Contains(t, body["error"], "In****")
}
