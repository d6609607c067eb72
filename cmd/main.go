package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mstgnz/paybridge/handler"
	"github.com/mstgnz/paybridge/infra/config"
	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/opensearch"
	"github.com/mstgnz/paybridge/provider"
	"github.com/mstgnz/paybridge/provider/alatpay"
	"github.com/mstgnz/paybridge/provider/paystack"
	"github.com/mstgnz/paybridge/router"
	"github.com/rs/zerolog"
)

const (
	serviceName     = "paybridge"
	version         = "1.0.0"
	logBufferSize   = 1024
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []io.Writer
	var logWriter *opensearch.Writer
	if cfg.OpenSearch.Enabled {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize OpenSearch client: %v\nContinuing without OpenSearch logging...\n", err)
		} else {
			logWriter = opensearch.NewWriter(osClient, logBufferSize)
			sinks = append(sinks, logWriter)
		}
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		File:        cfg.Log.File,
		Writers:     sinks,
		Service:     serviceName,
		Version:     version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Close()
		if logWriter != nil {
			_ = logWriter.Close()
		}
	}()

	gateways := openGateways(cfg, log.Logger)
	defer func() {
		for _, gw := range gateways {
			if err := gw.Close(); err != nil {
				log.Warn().Err(err).Str("provider", gw.Name()).Msg("failed to close provider client")
			}
		}
	}()

	handlers := router.Handlers{}
	configured := make([]string, 0, len(gateways))
	for _, gw := range gateways {
		configured = append(configured, gw.Name())
		switch client := gw.(type) {
		case *alatpay.Client:
			handlers.AlatPay = handler.NewAlatPayHandler(client.Cards(), client.BankTransfers(), log.Logger)
		case *paystack.Client:
			handlers.Paystack = handler.NewPaystackHandler(client.Transactions(), log.Logger)
		}
	}
	handlers.Health = handler.NewHealthHandler(version, configured, provider.GetAvailableProviders)
	if logWriter != nil {
		handlers.Health.WithLogSink(logWriter)
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Port),
		Handler: router.New(router.Options{
			Logger:         log.Logger,
			RequestTimeout: cfg.ProviderTimeout + 5*time.Second,
		}, handlers),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Strs("providers", configured).Msg("API is running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Block until a signal is received or the server fails
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// openGateways builds a client for every enabled provider. Providers whose
// settings are incomplete are skipped with a warning.
func openGateways(cfg *config.AppConfig, log zerolog.Logger) []provider.Gateway {
	gateways := make([]provider.Gateway, 0, len(cfg.EnabledProviders))
	for _, name := range cfg.EnabledProviders {
		gw, err := provider.DefaultRegistry.Create(name, cfg.ProviderSettings(name), log)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("provider disabled")
			continue
		}
		gateways = append(gateways, gw)
	}
	return gateways
}
