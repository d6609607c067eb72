package alatpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mstgnz/paybridge/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records every call and answers with canned bodies.
type fakeTransport struct {
	mu       sync.Mutex
	posts    int
	gets     int
	lastPath string
	lastBody map[string]any
	response provider.Body
	err      error
	closed   int
}

func (f *fakeTransport) Post(_ context.Context, payload any, path string) (provider.Body, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts++
	f.lastPath = path
	f.lastBody, _ = payload.(map[string]any)
	return f.response, f.err
}

func (f *fakeTransport) Get(_ context.Context, path string, _ map[string]string) (provider.Body, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	f.lastPath = path
	return f.response, f.err
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func testConfig() Config {
	return Config{
		BaseURL:         "https://apibox.alatpay.ng",
		SubscriptionKey: "sub-key-123",
		BusinessID:      "biz-00001",
	}
}

func newTestClient(t *testing.T, transport provider.Transport, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := New(cfg, WithTransport(transport))
	require.NoError(t, err)
	return client
}

func testCustomer() Customer {
	return Customer{
		Email:     "ada@example.com",
		Phone:     "08101391054",
		FirstName: "Ada",
		LastName:  "Obi",
		Metadata:  "Payer",
	}
}

func testAccountRequest(t *testing.T) AccountRequest {
	amount, err := provider.NewAmount("1000")
	require.NoError(t, err)
	return AccountRequest{
		Amount:      amount,
		Currency:    "NGN",
		OrderID:     "ord-1",
		Description: "Order payment",
		Customer:    testCustomer(),
	}
}

func accountData() map[string]any {
	return map[string]any{
		"businessId":                "biz-00001",
		"amount":                    json.Number("1000"),
		"currency":                  "NGN",
		"orderId":                   "ord-1",
		"description":               "Order payment",
		"customer":                  map[string]any{"email": "ada@example.com", "phone": "08101391054", "firstName": "Ada", "lastName": "Obi", "metadata": "Payer"},
		"id":                        "va-000123",
		"merchantId":                "1ea91ec2-851e-47f1-ac6a-08dcd7e5dac5",
		"virtualBankCode":           "035",
		"virtualBankAccountNumber":  "9012345678",
		"businessBankAccountNumber": "0123456789",
		"businessBankCode":          "035",
		"transactionId":             "999cf73f-4b3c-4161-ae1c-4cf2f17da45e",
		"status":                    "Pending",
		"expiredAt":                 "2026-10-14T12:30:00Z",
		"settlementType":            "Instant",
		"createdAt":                 "2026-10-14T12:00:00Z",
	}
}

func TestNew_MissingConfiguration(t *testing.T) {
	_, err := New(Config{})

	var cerr *provider.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "alatpay", cerr.Provider)
	assert.Equal(t, []string{"baseUrl", "subscriptionKey", "businessId"}, cerr.Fields)
}

func TestNew_UnknownSchemaVersion(t *testing.T) {
	cfg := testConfig()
	cfg.SchemaVersion = "v9"

	_, err := New(cfg)
	assert.ErrorIs(t, err, provider.ErrConfiguration)
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		settings    map[string]string
		expectError bool
	}{
		{
			name: "valid settings",
			settings: map[string]string{
				"baseUrl":                 "https://apibox.alatpay.ng",
				"subscriptionKey":         "sub-key-123",
				"businessId":              "biz-00001",
				"schemaVersion":           "v2",
				"timeout":                 "10s",
				"assertTransactionStatus": "true",
			},
		},
		{
			name:        "missing identity",
			settings:    map[string]string{"baseUrl": "https://apibox.alatpay.ng"},
			expectError: true,
		},
		{
			name: "bad schema version",
			settings: map[string]string{
				"baseUrl":         "https://apibox.alatpay.ng",
				"subscriptionKey": "sub-key-123",
				"businessId":      "biz-00001",
				"schemaVersion":   "v3",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewFromConfig(tt.settings)
			if tt.expectError {
				assert.ErrorIs(t, err, provider.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			defer client.Close()

			assert.Equal(t, "alatpay", client.Name())
			assert.Equal(t, 10*time.Second, client.config.Timeout)
			assert.True(t, client.config.AssertTransactionStatus)
			assert.Equal(t, "v2", client.schema.Name())
		})
	}
}

func TestConfigFromSettings_InvalidValues(t *testing.T) {
	base := map[string]string{
		"baseUrl":         "https://apibox.alatpay.ng",
		"subscriptionKey": "sub-key-123",
		"businessId":      "biz-00001",
	}

	tests := []struct {
		name      string
		key       string
		value     string
		wantField string
	}{
		{"timeout", "timeout", "ten seconds", "timeout"},
		{"assert flag", "assertTransactionStatus", "sometimes", "assertTransactionStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := map[string]string{tt.key: tt.value}
			for k, v := range base {
				settings[k] = v
			}

			_, err := configFromSettings(settings)
			require.ErrorIs(t, err, provider.ErrConfiguration)

			var cfgErr *provider.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "alatpay", cfgErr.Provider)
			assert.Empty(t, cfgErr.Fields)
			assert.Contains(t, cfgErr.Reason, "invalid "+tt.wantField)
		})
	}
}

func TestRegisteredWithDefaultRegistry(t *testing.T) {
	assert.Contains(t, provider.GetAvailableProviders(), "alatpay")

	gw, err := provider.DefaultRegistry.Create("alatpay", map[string]string{
		"baseUrl":         "https://apibox.alatpay.ng",
		"subscriptionKey": "sub-key-123",
		"businessId":      "biz-00001",
	}, zerologNop())
	require.NoError(t, err)
	assert.Equal(t, "alatpay", gw.Name())
	assert.NoError(t, gw.Close())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
	assert.Equal(t, 1, transport.closed)
}

func TestClient_AdaptersAreLazySingletons(t *testing.T) {
	client := newTestClient(t, &fakeTransport{})

	assert.Same(t, client.Cards(), client.Cards())
	assert.Same(t, client.BankTransfers(), client.BankTransfers())
}

func TestUse_ClosesOnEveryExit(t *testing.T) {
	t.Run("returns fn error", func(t *testing.T) {
		transport := &fakeTransport{}
		wantErr := errors.New("boom")

		err := Use(testConfig(), func(c *Client) error { return wantErr }, WithTransport(transport))

		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, transport.closed)
	})

	t.Run("panic", func(t *testing.T) {
		transport := &fakeTransport{}

		assert.Panics(t, func() {
			_ = Use(testConfig(), func(c *Client) error { panic("unexpected") }, WithTransport(transport))
		})
		assert.Equal(t, 1, transport.closed)
	})

	t.Run("configuration error", func(t *testing.T) {
		called := false
		err := Use(Config{}, func(c *Client) error { called = true; return nil })

		assert.ErrorIs(t, err, provider.ErrConfiguration)
		assert.False(t, called)
	})
}

func TestBankTransfer_GenerateVirtualAccount(t *testing.T) {
	transport := &fakeTransport{response: provider.Body{
		"status":  true,
		"message": "Business fetched locally",
		"data":    accountData(),
	}}
	client := newTestClient(t, transport)

	result, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))
	require.NoError(t, err)

	assert.Equal(t, endpointVirtualAccount, transport.lastPath)
	assert.Equal(t, "biz-00001", transport.lastBody["businessId"])
	assert.Equal(t, json.Number("1000"), transport.lastBody["amount"])
	assert.Equal(t, "ord-1", transport.lastBody["orderId"])

	data := result.Data
	assert.Equal(t, "9012345678", data.VirtualBankAccountNumber)
	assert.Equal(t, "035", data.VirtualBankCode)
	assert.Equal(t, "999cf73f-4b3c-4161-ae1c-4cf2f17da45e", data.TransactionID)
	assert.Equal(t, "1000", data.Amount.String())
	assert.Equal(t, "Ada", data.Customer.FirstName)
	require.NotNil(t, data.ExpiredAt)
	assert.Equal(t, time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC), data.ExpiredAt.UTC())
}

func TestBankTransfer_GenerateVirtualAccount_GatewayFailure(t *testing.T) {
	transport := &fakeTransport{response: provider.Body{"message": "Failed"}}
	client := newTestClient(t, transport)

	result, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))
	assert.Nil(t, result)

	var gwErr *provider.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, 400, gwErr.Code)
	assert.Equal(t, "Failed to create virtual account", gwErr.Message)
	assert.Equal(t, map[string]any{"message": "Failed"}, gwErr.Context)
}

func TestBankTransfer_GenerateVirtualAccount_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *AccountRequest)
		field  string
	}{
		{"lowercase currency", func(r *AccountRequest) { r.Currency = "ngn" }, "currency"},
		{"short order id", func(r *AccountRequest) { r.OrderID = "o-1" }, "orderId"},
		{"bad email", func(r *AccountRequest) { r.Customer.Email = "not-an-email" }, "customer.email"},
		{"short phone", func(r *AccountRequest) { r.Customer.Phone = "0810" }, "customer.phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			client := newTestClient(t, transport)
			req := testAccountRequest(t)
			tt.modify(&req)

			_, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), req)

			var verr *provider.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
			assert.Zero(t, transport.posts)
		})
	}
}

func TestBankTransfer_GenerateVirtualAccount_InvalidResponse(t *testing.T) {
	data := accountData()
	data["currency"] = "naira"
	transport := &fakeTransport{response: provider.Body{"message": "Business fetched locally", "data": data}}
	client := newTestClient(t, transport)

	result, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, provider.ErrValidation)
}

func TestBankTransfer_SchemaV2RequiresLongerOrderID(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport, func(c *Config) { c.SchemaVersion = SchemaV2 })

	_, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))

	assert.ErrorIs(t, err, provider.ErrValidation)
	assert.Zero(t, transport.posts)
}

func TestBankTransfer_ConfirmTransactionStatus(t *testing.T) {
	t.Run("unasserted by default", func(t *testing.T) {
		transport := &fakeTransport{response: provider.Body{"status": true, "message": "Transaction found", "data": accountData()}}
		client := newTestClient(t, transport)

		result, err := client.BankTransfers().ConfirmTransactionStatus(context.Background(), "999cf73f/4b3c")
		require.NoError(t, err)
		assert.Equal(t, "Pending", result.Data.Status)
		assert.Equal(t, endpointTransactions+"999cf73f%2F4b3c", transport.lastPath)
		assert.Equal(t, 1, transport.gets)
	})

	t.Run("asserted when configured", func(t *testing.T) {
		transport := &fakeTransport{response: provider.Body{"message": "Transaction found", "data": accountData()}}
		client := newTestClient(t, transport, func(c *Config) { c.AssertTransactionStatus = true })

		_, err := client.BankTransfers().ConfirmTransactionStatus(context.Background(), "txn-00001")

		var gwErr *provider.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "Transaction found", gwErr.Context["message"])
		assert.Equal(t, "txn-00001", gwErr.Context["transactionId"])
	})

	t.Run("custom success message", func(t *testing.T) {
		transport := &fakeTransport{response: provider.Body{"message": "Transaction found", "data": accountData()}}
		client := newTestClient(t, transport, func(c *Config) {
			c.AssertTransactionStatus = true
			c.TransactionStatusMessage = "Transaction found"
		})

		_, err := client.BankTransfers().ConfirmTransactionStatus(context.Background(), "txn-00001")
		assert.NoError(t, err)
	})

	t.Run("empty id", func(t *testing.T) {
		transport := &fakeTransport{}
		client := newTestClient(t, transport)

		_, err := client.BankTransfers().ConfirmTransactionStatus(context.Background(), "")
		assert.ErrorIs(t, err, provider.ErrValidation)
		assert.Zero(t, transport.gets)
	})
}

func TestBankTransfer_OverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sub-key-123", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, endpointVirtualAccount, r.URL.Path)

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "biz-00001", payload["businessId"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Business fetched locally",
			"data":    accountData(),
		})
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.BaseURL = server.URL
	err := Use(cfg, func(c *Client) error {
		result, err := c.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))
		if err != nil {
			return err
		}
		assert.Equal(t, "va-000123", result.Data.ID)
		return nil
	})

	assert.NoError(t, err)
}

func TestBankTransfer_TransportErrorsPropagate(t *testing.T) {
	cause := &provider.TransportError{Method: http.MethodPost, Path: endpointVirtualAccount, StatusCode: 401}
	client := newTestClient(t, &fakeTransport{err: cause})

	_, err := client.BankTransfers().GenerateVirtualAccount(context.Background(), testAccountRequest(t))

	assert.ErrorIs(t, err, provider.ErrTransport)
	assert.NotErrorIs(t, err, provider.ErrGateway)
}
