package paystack

import (
	"strconv"
	"time"

	"github.com/mstgnz/paybridge/provider"
)

// InitializeRequest starts a transaction and returns a checkout URL.
// Amount is in the currency's subunit (kobo, pesewas, cents).
type InitializeRequest struct {
	Amount            string   `json:"amount" validate:"required,digits"`
	Email             string   `json:"email" validate:"required,email"`
	Currency          *string  `json:"currency,omitempty" validate:"omitempty,currency"`
	Reference         *string  `json:"reference,omitempty" validate:"omitempty,reference"`
	CallbackURL       *string  `json:"callback_url,omitempty" validate:"omitempty,url"`
	Plan              *string  `json:"plan,omitempty" validate:"omitempty,min=1"`
	InvoiceLimit      *int     `json:"invoice_limit,omitempty" validate:"omitempty,gte=0"`
	Metadata          *string  `json:"metadata,omitempty" validate:"omitempty,json"`
	Channels          []string `json:"channels,omitempty" validate:"omitempty,dive,oneof=card bank apple_pay ussd qr mobile_money bank_transfer eft"`
	SplitCode         *string  `json:"split_code,omitempty" validate:"omitempty,min=1"`
	Subaccount        *string  `json:"subaccount,omitempty" validate:"omitempty,min=1"`
	TransactionCharge *int     `json:"transaction_charge,omitempty" validate:"omitempty,gte=0"`
	Bearer            *string  `json:"bearer,omitempty" validate:"omitempty,oneof=account subaccount"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url" validate:"required,url"`
	AccessCode       string `json:"access_code" validate:"required"`
	Reference        string `json:"reference,omitempty" validate:"omitempty,reference"`
}

// ChargeAuthorizationRequest charges a previously authorized card.
type ChargeAuthorizationRequest struct {
	Amount            string   `json:"amount" validate:"required,digits"`
	Email             string   `json:"email" validate:"required,email"`
	AuthorizationCode string   `json:"authorization_code" validate:"required"`
	Reference         *string  `json:"reference,omitempty" validate:"omitempty,reference"`
	Currency          *string  `json:"currency,omitempty" validate:"omitempty,currency"`
	Metadata          *string  `json:"metadata,omitempty" validate:"omitempty,json"`
	Channels          []string `json:"channels,omitempty" validate:"omitempty,dive,oneof=card bank apple_pay ussd qr mobile_money bank_transfer eft"`
	Subaccount        *string  `json:"subaccount,omitempty" validate:"omitempty,min=1"`
	TransactionCharge *int     `json:"transaction_charge,omitempty" validate:"omitempty,gte=0"`
	Bearer            *string  `json:"bearer,omitempty" validate:"omitempty,oneof=account subaccount"`
	Queue             *bool    `json:"queue,omitempty"`
}

// PartialDebitRequest retrieves part of a payment from a customer when the
// full amount cannot be charged.
type PartialDebitRequest struct {
	AuthorizationCode string  `json:"authorization_code" validate:"required"`
	Currency          string  `json:"currency" validate:"required,currency"`
	Amount            string  `json:"amount" validate:"required,digits"`
	Email             string  `json:"email" validate:"required,email"`
	Reference         *string `json:"reference,omitempty" validate:"omitempty,reference"`
	AtLeast           *string `json:"at_least,omitempty" validate:"omitempty,digits"`
}

type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type CustomerMetadata struct {
	CustomFields []CustomField `json:"custom_fields,omitempty"`
}

type Customer struct {
	ID                       int64   `json:"id" validate:"required"`
	FirstName                *string `json:"first_name"`
	LastName                 *string `json:"last_name"`
	Email                    string  `json:"email" validate:"required,email"`
	CustomerCode             string  `json:"customer_code" validate:"required"`
	Phone                    *string `json:"phone"`
	Metadata                 any     `json:"metadata,omitempty"`
	RiskAction               string  `json:"risk_action" validate:"required"`
	InternationalFormatPhone *string `json:"international_format_phone,omitempty"`
}

type LogHistory struct {
	Type    string `json:"type" validate:"required"`
	Message string `json:"message"`
	Time    int64  `json:"time" validate:"gte=0"`
}

// Log is the customer's checkout history for one transaction.
type Log struct {
	StartTime int64        `json:"start_time"`
	TimeSpent int64        `json:"time_spent"`
	Attempts  int          `json:"attempts"`
	Errors    int          `json:"errors"`
	Success   bool         `json:"success"`
	Mobile    bool         `json:"mobile"`
	Input     []any        `json:"input"`
	History   []LogHistory `json:"history" validate:"dive"`
}

// Timeline is the data returned by ViewTimeline.
type Timeline = Log

type Authorization struct {
	AuthorizationCode string `json:"authorization_code,omitempty"`
	Bin               string `json:"bin,omitempty"`
	Last4             string `json:"last4,omitempty"`
	ExpMonth          string `json:"exp_month,omitempty"`
	ExpYear           string `json:"exp_year,omitempty"`
	Channel           string `json:"channel,omitempty"`
	CardType          string `json:"card_type,omitempty"`
	Bank              string `json:"bank,omitempty"`
	CountryCode       string `json:"country_code,omitempty"`
	Brand             string `json:"brand,omitempty"`
	Reusable          *bool  `json:"reusable,omitempty"`
	Signature         string `json:"signature,omitempty"`
	AccountName       string `json:"account_name,omitempty"`
}

// Transaction is returned by Verify, List and Fetch.
type Transaction struct {
	ID                 int64          `json:"id" validate:"required"`
	Domain             string         `json:"domain" validate:"required"`
	Status             string         `json:"status" validate:"required"`
	Reference          string         `json:"reference,omitempty" validate:"omitempty,reference"`
	ReceiptNumber      *string        `json:"receipt_number"`
	Amount             int64          `json:"amount" validate:"gte=0"`
	Message            *string        `json:"message"`
	GatewayResponse    string         `json:"gateway_response" validate:"required"`
	PaidAt             *time.Time     `json:"paid_at,omitempty"`
	CreatedAt          *time.Time     `json:"created_at,omitempty"`
	Channel            string         `json:"channel" validate:"required"`
	Currency           string         `json:"currency,omitempty" validate:"omitempty,currency"`
	IPAddress          *string        `json:"ip_address"`
	Metadata           any            `json:"metadata"`
	Log                *Log           `json:"log"`
	Fees               *int64         `json:"fees,omitempty"`
	FeesSplit          any            `json:"fees_split"`
	Authorization      *Authorization `json:"authorization,omitempty"`
	Customer           Customer       `json:"customer"`
	Plan               any            `json:"plan"`
	Split              map[string]any `json:"split"`
	OrderID            *string        `json:"order_id"`
	RequestedAmount    int64          `json:"requested_amount" validate:"gte=0"`
	PosTransactionData any            `json:"pos_transaction_data"`
	Source             any            `json:"source"`
	FeesBreakdown      any            `json:"fees_breakdown"`
	Connect            any            `json:"connect"`
	TransactionDate    *time.Time     `json:"transaction_date,omitempty"`
	PlanObject         map[string]any `json:"plan_object,omitempty"`
	Subaccount         map[string]any `json:"subaccount"`
}

// Charge is the data returned by ChargeAuthorization.
type Charge struct {
	ID              int64          `json:"id" validate:"required"`
	Amount          int64          `json:"amount" validate:"gte=0"`
	Currency        string         `json:"currency,omitempty" validate:"omitempty,currency"`
	TransactionDate *time.Time     `json:"transaction_date,omitempty"`
	Status          string         `json:"status" validate:"required"`
	Reference       string         `json:"reference,omitempty" validate:"omitempty,reference"`
	Domain          string         `json:"domain" validate:"required"`
	Metadata        any            `json:"metadata,omitempty"`
	GatewayResponse string         `json:"gateway_response" validate:"required"`
	Message         *string        `json:"message,omitempty"`
	Channel         string         `json:"channel" validate:"required"`
	IPAddress       *string        `json:"ip_address,omitempty"`
	Log             any            `json:"log,omitempty"`
	Fees            *int64         `json:"fees,omitempty"`
	Authorization   *Authorization `json:"authorization,omitempty"`
	Customer        *Customer      `json:"customer,omitempty"`
	Plan            any            `json:"plan,omitempty"`
}

// PartialDebitCharge is the data returned by PartialDebit. Most fields are
// absent while the debit is still queued.
type PartialDebitCharge struct {
	ID              *int64         `json:"id,omitempty"`
	Amount          *int64         `json:"amount,omitempty"`
	Currency        string         `json:"currency,omitempty" validate:"omitempty,currency"`
	TransactionDate *time.Time     `json:"transaction_date,omitempty"`
	Status          *string        `json:"status,omitempty"`
	Reference       string         `json:"reference,omitempty" validate:"omitempty,reference"`
	Domain          *string        `json:"domain,omitempty"`
	Metadata        any            `json:"metadata,omitempty"`
	GatewayResponse string         `json:"gateway_response" validate:"required"`
	Message         *string        `json:"message,omitempty"`
	Channel         *string        `json:"channel,omitempty"`
	IPAddress       *string        `json:"ip_address,omitempty"`
	Log             any            `json:"log,omitempty"`
	Fees            *int64         `json:"fees,omitempty"`
	Authorization   *Authorization `json:"authorization,omitempty"`
	Customer        *Customer      `json:"customer,omitempty"`
	Plan            any            `json:"plan,omitempty"`
	RequestedAmount *int64         `json:"requested_amount,omitempty"`
}

type CurrencyAmount struct {
	Currency string `json:"currency,omitempty" validate:"omitempty,currency"`
	Amount   int64  `json:"amount"`
}

// Totals summarizes transaction volume for a date range.
type Totals struct {
	TotalTransactions          int64            `json:"total_transactions" validate:"gte=0"`
	TotalVolume                int64            `json:"total_volume" validate:"gte=0"`
	TotalVolumeByCurrency      []CurrencyAmount `json:"total_volume_by_currency" validate:"dive"`
	PendingTransfers           int64            `json:"pending_transfers" validate:"gte=0"`
	PendingTransfersByCurrency []CurrencyAmount `json:"pending_transfers_by_currency" validate:"dive"`
}

// ExportData points at the CSV download of an export.
type ExportData struct {
	Path      *string    `json:"path,omitempty" validate:"omitempty,url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Typed results, decoded only after the success literal matched.
type (
	InitializeResult   = provider.Envelope[InitializeData]
	VerifyResult       = provider.Envelope[Transaction]
	ListResult         = provider.ListEnvelope[Transaction]
	FetchResult        = provider.Envelope[Transaction]
	ChargeResult       = provider.Envelope[Charge]
	TimelineResult     = provider.Envelope[Timeline]
	TotalsResult       = provider.Envelope[Totals]
	ExportResult       = provider.Envelope[ExportData]
	PartialDebitResult = provider.Envelope[PartialDebitCharge]
)

// ListParams filters List. Nil fields are not sent.
type ListParams struct {
	PerPage    *int       `json:"perPage,omitempty" validate:"omitempty,gte=1"`
	Page       *int       `json:"page,omitempty" validate:"omitempty,gte=1"`
	Customer   *int64     `json:"customer,omitempty" validate:"omitempty,gte=1"`
	TerminalID *string    `json:"terminalid,omitempty" validate:"omitempty,min=1"`
	Status     *string    `json:"status,omitempty" validate:"omitempty,oneof=failed success abandoned"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Amount     *int64     `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

// Query renders the params as query string values.
func (p ListParams) Query() map[string]string {
	q := map[string]string{}
	setInt(q, "perPage", p.PerPage)
	setInt(q, "page", p.Page)
	setInt64(q, "customer", p.Customer)
	setString(q, "terminalid", p.TerminalID)
	setString(q, "status", p.Status)
	setTime(q, "from", p.From)
	setTime(q, "to", p.To)
	setInt64(q, "amount", p.Amount)
	return q
}

// RangeParams pages through a date range, for Totals.
type RangeParams struct {
	PerPage *int       `json:"perPage,omitempty" validate:"omitempty,gte=1"`
	Page    *int       `json:"page,omitempty" validate:"omitempty,gte=1"`
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
}

// Query renders the params as query string values.
func (p RangeParams) Query() map[string]string {
	q := map[string]string{}
	setInt(q, "perPage", p.PerPage)
	setInt(q, "page", p.Page)
	setTime(q, "from", p.From)
	setTime(q, "to", p.To)
	return q
}

// ExportParams filters Export.
type ExportParams struct {
	RangeParams
	Customer    *int64  `json:"customer,omitempty" validate:"omitempty,gte=1"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=failed success abandoned"`
	Currency    *string `json:"currency,omitempty" validate:"omitempty,currency"`
	Amount      *int64  `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Settled     *bool   `json:"settled,omitempty"`
	Settlement  *int64  `json:"settlement,omitempty" validate:"omitempty,gte=1"`
	PaymentPage *int64  `json:"payment_page,omitempty" validate:"omitempty,gte=1"`
}

// Query renders the params as query string values.
func (p ExportParams) Query() map[string]string {
	q := p.RangeParams.Query()
	setInt64(q, "customer", p.Customer)
	setString(q, "status", p.Status)
	setString(q, "currency", p.Currency)
	setInt64(q, "amount", p.Amount)
	if p.Settled != nil {
		q["settled"] = strconv.FormatBool(*p.Settled)
	}
	setInt64(q, "settlement", p.Settlement)
	setInt64(q, "payment_page", p.PaymentPage)
	return q
}

func setInt(q map[string]string, key string, v *int) {
	if v != nil {
		q[key] = strconv.Itoa(*v)
	}
}

func setInt64(q map[string]string, key string, v *int64) {
	if v != nil {
		q[key] = strconv.FormatInt(*v, 10)
	}
}

func setString(q map[string]string, key string, v *string) {
	if v != nil {
		q[key] = *v
	}
}

func setTime(q map[string]string, key string, v *time.Time) {
	if v != nil {
		q[key] = v.UTC().Format(time.RFC3339)
	}
}
