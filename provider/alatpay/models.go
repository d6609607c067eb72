package alatpay

import (
	"time"

	"github.com/mstgnz/paybridge/provider"
)

// Customer identifies the payer on card and bank transfer requests.
type Customer struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=11,max=14"`
	FirstName string `json:"firstName" validate:"required,min=1"`
	LastName  string `json:"lastName" validate:"required,min=1"`
	Metadata  string `json:"metadata" validate:"required,min=1"`
}

// InitRequest starts a card payment.
type InitRequest struct {
	CardNumber string `json:"cardNumber" validate:"required,min=10"`
	Currency   string `json:"currency" validate:"required,currency"`
}

// CardInit is the data returned by card initialization.
type CardInit struct {
	GatewayRecommendation string `json:"gatewayRecommendation" validate:"required,min=3"`
	TransactionID         string `json:"transactionId" validate:"required,min=5"`
	OrderID               string `json:"orderId" validate:"required,min=5"`
}

// InitResult is the response of a successful card initialization.
type InitResult = provider.Envelope[CardInit]

// UserData carries the card and customer details for authentication.
type UserData struct {
	CardNumber    string   `json:"cardNumber" validate:"required,min=10,max=19"`
	CardMonth     string   `json:"cardMonth" validate:"required,min=1,max=2"`
	CardYear      string   `json:"cardYear" validate:"required,min=2,max=4"`
	SecurityCode  string   `json:"securityCode" validate:"required,min=3,max=4"`
	BusinessName  string   `json:"businessName" validate:"required,min=1"`
	Amount        string   `json:"amount" validate:"required,min=2"`
	Currency      string   `json:"currency" validate:"required,currency"`
	OrderID       string   `json:"orderId" validate:"required,min=5"`
	Description   string   `json:"description" validate:"required,min=1"`
	Channel       string   `json:"channel" validate:"required,min=3"`
	TransactionID string   `json:"transactionId" validate:"required,min=5"`
	Customer      Customer `json:"customer"`
}

// CardAuth is the data returned by card authentication.
type CardAuth struct {
	RedirectHTML          string `json:"redirectHtml" validate:"required,min=5"`
	GatewayRecommendation string `json:"gatewayRecommendation" validate:"required,min=5"`
	TransactionID         string `json:"transactionId" validate:"required,min=5"`
	OrderID               string `json:"orderId" validate:"required,min=5"`
}

// AuthResult is the response of a successful card authentication.
type AuthResult = provider.Envelope[CardAuth]

// AccountRequest asks for a temporary virtual account the payer transfers into.
type AccountRequest struct {
	Amount      provider.Amount `json:"amount" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"required,currency"`
	OrderID     string          `json:"orderId" validate:"required,min=5"`
	Description string          `json:"description" validate:"required,min=5"`
	Customer    Customer        `json:"customer"`
}

// AccountDetails describes a generated virtual account and the business
// account it settles into.
type AccountDetails struct {
	BusinessID                string          `json:"businessId" validate:"required,min=5"`
	Amount                    provider.Amount `json:"amount" validate:"gte=0"`
	Currency                  string          `json:"currency" validate:"required,currency"`
	OrderID                   string          `json:"orderId" validate:"required,min=5"`
	Description               string          `json:"description" validate:"required,min=5"`
	Customer                  Customer        `json:"customer"`
	ID                        string          `json:"id" validate:"required,min=5"`
	MerchantID                string          `json:"merchantId" validate:"required,min=5"`
	VirtualBankCode           string          `json:"virtualBankCode" validate:"required"`
	VirtualBankAccountNumber  string          `json:"virtualBankAccountNumber" validate:"required,min=5"`
	BusinessBankAccountNumber string          `json:"businessBankAccountNumber" validate:"required,min=5"`
	BusinessBankCode          string          `json:"businessBankCode" validate:"required"`
	TransactionID             string          `json:"transactionId" validate:"required,min=5"`
	Status                    string          `json:"status" validate:"required"`
	ExpiredAt                 *time.Time      `json:"expiredAt"`
	SettlementType            string          `json:"settlementType" validate:"required"`
	CreatedAt                 *time.Time      `json:"createdAt"`
}

// AccountResult is the response of virtual account generation and of a
// transaction status lookup.
type AccountResult = provider.Envelope[AccountDetails]

// Schema versions.
const (
	SchemaV1 = "v1"
	SchemaV2 = "v2"
)

// ConstraintsV2 tightens the card expiry month to two digits and order ids to
// at least ten characters, as required by the second API revision.
var ConstraintsV2 = provider.ConstraintSet{
	Name: SchemaV2,
	Rules: map[any]provider.FieldRules{
		UserData{}: {
			"CardMonth": "required,len=2,digits",
			"OrderID":   "required,min=10",
		},
		AccountRequest{}: {
			"OrderID": "required,min=10",
		},
	},
}

// NewSchema returns the schema for an API version. An empty version is v1.
func NewSchema(version string) (*provider.Schema, error) {
	switch version {
	case "", SchemaV1:
		return provider.NewSchema(provider.ConstraintSet{Name: SchemaV1}), nil
	case SchemaV2:
		return provider.NewSchema(ConstraintsV2), nil
	default:
		return nil, &provider.ConfigurationError{
			Provider: ProviderName,
			Reason:   "unknown schema version " + version,
		}
	}
}
