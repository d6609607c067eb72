package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/provider/alatpay"
	"github.com/rs/zerolog"
)

// CardService is the ALATPay card flow used by AlatPayHandler.
type CardService interface {
	Initiate(ctx context.Context, req alatpay.InitRequest) (*alatpay.InitResult, error)
	Authenticate(ctx context.Context, userData alatpay.UserData, init *alatpay.InitResult) (*alatpay.AuthResult, error)
}

// BankTransferService is the ALATPay bank transfer flow used by AlatPayHandler.
type BankTransferService interface {
	GenerateVirtualAccount(ctx context.Context, req alatpay.AccountRequest) (*alatpay.AccountResult, error)
	ConfirmTransactionStatus(ctx context.Context, transactionID string) (*alatpay.AccountResult, error)
}

// AuthenticateRequest is the body of the card authentication endpoint. Init
// is the result previously returned by the initialize endpoint.
type AuthenticateRequest struct {
	UserData alatpay.UserData    `json:"userData"`
	Init     *alatpay.InitResult `json:"init"`
}

// AlatPayHandler handles ALATPay related HTTP requests
type AlatPayHandler struct {
	cards     CardService
	transfers BankTransferService
	logger    zerolog.Logger
}

// NewAlatPayHandler creates a new ALATPay handler
func NewAlatPayHandler(cards CardService, transfers BankTransferService, logger zerolog.Logger) *AlatPayHandler {
	return &AlatPayHandler{
		cards:     cards,
		transfers: transfers,
		logger:    logger.With().Str("provider", alatpay.ProviderName).Logger(),
	}
}

// Routes registers the ALATPay endpoints on r.
func (h *AlatPayHandler) Routes(r chi.Router) {
	r.Post("/cards/initialize", h.InitializeCard)
	r.Post("/cards/authenticate", h.AuthenticateCard)
	r.Post("/virtual-accounts", h.GenerateVirtualAccount)
	r.Get("/transactions/{transactionID}", h.ConfirmTransactionStatus)
}

// InitializeCard starts a card payment.
func (h *AlatPayHandler) InitializeCard(w http.ResponseWriter, r *http.Request) {
	var req alatpay.InitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.cards.Initiate(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// AuthenticateCard authenticates a card payment that passed initialization.
func (h *AlatPayHandler) AuthenticateCard(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.cards.Authenticate(r.Context(), req.UserData, req.Init)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, result.Message, result.Data)
}

// GenerateVirtualAccount creates a temporary account for a bank transfer.
func (h *AlatPayHandler) GenerateVirtualAccount(w http.ResponseWriter, r *http.Request) {
	var req alatpay.AccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.transfers.GenerateVirtualAccount(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result.Message, result.Data)
}

// ConfirmTransactionStatus looks up a bank transfer by transaction id.
func (h *AlatPayHandler) ConfirmTransactionStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.transfers.ConfirmTransactionStatus(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, result.Message, result.Data)
}
