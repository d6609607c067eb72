package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// transportDetails is the client-facing view of a TransportError. The
// provider's body is left out because it may echo request data.
type transportDetails struct {
	StatusCode int    `json:"statusCode"`
	Path       string `json:"path"`
}

// writeError maps an adapter error onto an HTTP status and writes it.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var (
		validationErr  *provider.ValidationError
		notEligibleErr *provider.CardNotEligibleError
		gatewayErr     *provider.GatewayError
		transportErr   *provider.TransportError
		networkErr     *provider.NetworkError
		configErr      *provider.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithData(w, http.StatusBadRequest, "Validation error", err, validationErr.Violations)
	case errors.As(err, &notEligibleErr):
		response.ErrorWithData(w, http.StatusUnprocessableEntity, notEligibleErr.Message, err, notEligibleErr.GatewayError)
	case errors.As(err, &gatewayErr):
		status := gatewayErr.Code
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		response.ErrorWithData(w, status, gatewayErr.Message, err, gatewayErr)
	case errors.As(err, &transportErr):
		logger.Warn().Err(err).Msg("provider returned an error status")
		response.ErrorWithData(w, http.StatusBadGateway, "Provider request failed", err,
			transportDetails{StatusCode: transportErr.StatusCode, Path: transportErr.Path})
	case errors.As(err, &networkErr):
		logger.Error().Err(err).Msg("provider unreachable")
		response.Error(w, http.StatusGatewayTimeout, "Provider unreachable", err)
	case errors.As(err, &configErr):
		logger.Error().Err(err).Msg("provider misconfigured")
		response.Error(w, http.StatusServiceUnavailable, "Provider not configured", err)
	default:
		logger.Error().Err(err).Msg("unexpected handler error")
		response.Error(w, http.StatusInternalServerError, "Internal server error", errors.New("an unexpected error occurred"))
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}
