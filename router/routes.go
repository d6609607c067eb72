package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mstgnz/paybridge/handler"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New. A nil provider handler
// leaves that provider's routes unregistered.
type Handlers struct {
	AlatPay  *handler.AlatPayHandler
	Paystack *handler.PaystackHandler
	Health   *handler.HealthHandler
}

// Options configures the router middleware.
type Options struct {
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// New builds the service router.
func New(opts Options, h Handlers) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middle.RequestLogger(opts.Logger))
	r.Use(middle.PanicRecoveryMiddleware(opts.Logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300, // Preflight cache time (second)
	}))

	if h.Health != nil {
		r.Get("/health", h.Health.CheckHealth)
	}

	r.Route("/v1", func(r chi.Router) {
		if h.AlatPay != nil {
			r.Route("/alatpay", h.AlatPay.Routes)
		}
		if h.Paystack != nil {
			r.Route("/paystack", h.Paystack.Routes)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, response.Response{
			Code:    http.StatusNotFound,
			Success: false,
			Message: "Not Found",
		})
	})

	return r
}
