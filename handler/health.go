package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"slices"
	"time"

	"github.com/mstgnz/paybridge/infra/response"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	version    string
	configured []string
	available  func() []string
	logSink    LogSinkStats
	startTime  time.Time
}

// LogSinkStats reports the delivery counters of an asynchronous log sink.
type LogSinkStats interface {
	Dropped() int64
	Failed() int64
}

// HealthStatus represents overall service health
type HealthStatus struct {
	Status    string                     `json:"status"`
	Version   string                     `json:"version"`
	Timestamp time.Time                  `json:"timestamp"`
	Uptime    string                     `json:"uptime"`
	Providers map[string]*ProviderHealth `json:"providers"`
	System    *SystemHealth              `json:"system"`
	LogSink   *LogSinkHealth             `json:"log_sink,omitempty"`
}

// LogSinkHealth represents the OpenSearch log sink counters
type LogSinkHealth struct {
	Dropped int64 `json:"dropped"`
	Failed  int64 `json:"failed"`
}

// ProviderHealth represents payment provider health
type ProviderHealth struct {
	Status     string `json:"status"`
	Registered bool   `json:"registered"`
	Configured bool   `json:"configured"`
}

// SystemHealth represents process resource usage
type SystemHealth struct {
	Alloc      string `json:"alloc"`
	Sys        string `json:"sys"`
	GCRuns     uint32 `json:"gc_runs"`
	GoRoutines int    `json:"goroutines"`
}

// NewHealthHandler creates a new health handler. configured lists the
// providers that have a live client; available reports the registered ones.
func NewHealthHandler(version string, configured []string, available func() []string) *HealthHandler {
	return &HealthHandler{
		version:    version,
		configured: slices.Clone(configured),
		available:  available,
		startTime:  time.Now(),
	}
}

// WithLogSink adds the sink's counters to the health report.
func (h *HealthHandler) WithLogSink(sink LogSinkStats) *HealthHandler {
	h.logSink = sink
	return h
}

// CheckHealth reports which providers are reachable through this service.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	health := &HealthStatus{
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Providers: h.checkProviders(),
		System:    checkSystem(),
	}
	if h.logSink != nil {
		health.LogSink = &LogSinkHealth{Dropped: h.logSink.Dropped(), Failed: h.logSink.Failed()}
	}

	statusCode := http.StatusOK
	health.Status = "healthy"
	if len(h.configured) == 0 {
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Code:    statusCode,
		Success: statusCode == http.StatusOK,
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

func (h *HealthHandler) checkProviders() map[string]*ProviderHealth {
	providers := make(map[string]*ProviderHealth)

	if h.available != nil {
		for _, name := range h.available() {
			providers[name] = &ProviderHealth{Status: "not_configured", Registered: true}
		}
	}

	for _, name := range h.configured {
		p, ok := providers[name]
		if !ok {
			p = &ProviderHealth{}
			providers[name] = p
		}
		p.Configured = true
		p.Status = "healthy"
	}

	return providers
}

func checkSystem() *SystemHealth {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemHealth{
		Alloc:      formatBytes(memStats.Alloc),
		Sys:        formatBytes(memStats.Sys),
		GCRuns:     memStats.NumGC,
		GoRoutines: runtime.NumGoroutine(),
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
