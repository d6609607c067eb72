package alatpay

import (
	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

// Register ALATPay with the gateway registry
func init() {
	provider.Register(ProviderName, func(settings map[string]string, logger zerolog.Logger) (provider.Gateway, error) {
		return NewFromConfig(settings, WithLogger(logger))
	})
}
