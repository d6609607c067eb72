package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		configured     []string
		available      func() []string
		expectedStatus int
		wantProviders  map[string]string
	}{
		{
			name:           "no providers configured",
			available:      func() []string { return []string{"alatpay", "paystack"} },
			expectedStatus: http.StatusServiceUnavailable,
			wantProviders:  map[string]string{"alatpay": "not_configured", "paystack": "not_configured"},
		},
		{
			name:           "one provider configured",
			configured:     []string{"paystack"},
			available:      func() []string { return []string{"alatpay", "paystack"} },
			expectedStatus: http.StatusOK,
			wantProviders:  map[string]string{"alatpay": "not_configured", "paystack": "healthy"},
		},
		{
			name:           "nil registry lookup",
			configured:     []string{"alatpay"},
			expectedStatus: http.StatusOK,
			wantProviders:  map[string]string{"alatpay": "healthy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test", tt.configured, tt.available)
			require.False(t, h.startTime.IsZero())

			w := httptest.NewRecorder()
			h.CheckHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			data := decodeResponse(t, w)["data"].(map[string]any)
			assert.Equal(t, "test", data["version"])
			providers := data["providers"].(map[string]any)
			require.Len(t, providers, len(tt.wantProviders))
			for name, status := range tt.wantProviders {
				assert.Equal(t, status, providers[name].(map[string]any)["status"], name)
			}
		})
	}
}

type stubLogSink struct{ dropped, failed int64 }

func (s stubLogSink) Dropped() int64 { return s.dropped }
func (s stubLogSink) Failed() int64  { return s.failed }

func TestHealthHandler_LogSink(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler("test", []string{"paystack"}, nil).
		WithLogSink(stubLogSink{dropped: 3, failed: 1}).
		CheckHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	data := decodeResponse(t, w)["data"].(map[string]any)
	sink := data["log_sink"].(map[string]any)
	assert.EqualValues(t, 3, sink["dropped"])
	assert.EqualValues(t, 1, sink["failed"])

	w = httptest.NewRecorder()
	NewHealthHandler("test", []string{"paystack"}, nil).CheckHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotContains(t, decodeResponse(t, w)["data"], "log_sink")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
