package alatpay

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const (
	// ProviderName is the registry name of the ALATPay adapter.
	ProviderName = "alatpay"

	defaultTimeout = 30 * time.Second
)

// Config holds the ALATPay identity and endpoint. BaseURL, SubscriptionKey
// and BusinessID are required.
type Config struct {
	BaseURL         string
	SubscriptionKey string
	BusinessID      string
	// SchemaVersion selects the constraint set, "v1" (default) or "v2".
	SchemaVersion string
	Timeout       time.Duration

	// AssertTransactionStatus applies the success check to
	// ConfirmTransactionStatus against TransactionStatusMessage
	// (default "Success").
	AssertTransactionStatus  bool
	TransactionStatusMessage string
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	transport  provider.Transport
	httpClient *http.Client
	logger     zerolog.Logger
	schema     *provider.Schema
}

// WithTransport replaces the HTTP transport, mostly for tests.
func WithTransport(t provider.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSchema overrides the schema selected by Config.SchemaVersion.
func WithSchema(s *provider.Schema) Option {
	return func(o *options) { o.schema = s }
}

// Client is the ALATPay gateway. It owns its transport; call Close when done
// or use Use.
type Client struct {
	config    Config
	transport provider.Transport
	schema    *provider.Schema
	logger    zerolog.Logger

	cardsOnce sync.Once
	cards     *CardPayment
	bankOnce  sync.Once
	bank      *BankTransfer

	closeOnce sync.Once
	closeErr  error
}

// New validates cfg and builds a client. Every missing required field is
// reported in a single *provider.ConfigurationError.
func New(cfg Config, opts ...Option) (*Client, error) {
	var missing []string
	if cfg.BaseURL == "" {
		missing = append(missing, "baseUrl")
	}
	if cfg.SubscriptionKey == "" {
		missing = append(missing, "subscriptionKey")
	}
	if cfg.BusinessID == "" {
		missing = append(missing, "businessId")
	}
	if len(missing) > 0 {
		return nil, &provider.ConfigurationError{Provider: ProviderName, Fields: missing}
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	schema := o.schema
	if schema == nil {
		var err error
		if schema, err = NewSchema(cfg.SchemaVersion); err != nil {
			return nil, err
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	logger := o.logger.With().Str("provider", ProviderName).Logger()

	transport := o.transport
	if transport == nil {
		transport = provider.NewHTTPTransport(provider.HTTPClientConfig{
			Provider: ProviderName,
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			DefaultHeaders: map[string]string{
				"Accept":                    "application/json",
				"Ocp-Apim-Subscription-Key": cfg.SubscriptionKey,
			},
			Client: o.httpClient,
			Logger: logger,
		})
	}

	return &Client{
		config:    cfg,
		transport: transport,
		schema:    schema,
		logger:    logger,
	}, nil
}

// RequiredConfig describes the settings accepted by NewFromConfig.
func RequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "baseUrl",
			Required:    true,
			Type:        "url",
			Description: "ALATPay API base URL",
			Example:     "https://apibox.alatpay.ng",
		},
		{
			Key:         "subscriptionKey",
			Required:    true,
			Type:        "string",
			Description: "ALATPay primary subscription key",
			Example:     "3f2a...",
			MinLength:   8,
		},
		{
			Key:         "businessId",
			Required:    true,
			Type:        "string",
			Description: "ALATPay business id",
			Example:     "1ea91ec2-851e-47f1-ac6a-08dcd7e5dac5",
		},
		{
			Key:         "schemaVersion",
			Required:    false,
			Type:        "string",
			Description: "Constraint set to validate with (v1 or v2)",
			Example:     "v1",
			Pattern:     "^v[12]$",
		},
		{
			Key:         "timeout",
			Required:    false,
			Type:        "duration",
			Description: "HTTP timeout",
			Example:     "30s",
		},
		{
			Key:         "assertTransactionStatus",
			Required:    false,
			Type:        "boolean",
			Description: "Check the message of transaction status lookups",
			Example:     "false",
		},
		{
			Key:         "transactionStatusMessage",
			Required:    false,
			Type:        "string",
			Description: "Expected message when assertTransactionStatus is on",
			Example:     "Success",
		},
	}
}

// NewFromConfig builds a client from a settings map such as the one produced
// by config.AppConfig.ProviderSettings.
func NewFromConfig(settings map[string]string, opts ...Option) (*Client, error) {
	if err := provider.ValidateConfigFields(ProviderName, settings, RequiredConfig()); err != nil {
		return nil, err
	}

	cfg, err := configFromSettings(settings)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

func configFromSettings(settings map[string]string) (Config, error) {
	cfg := Config{
		BaseURL:                  settings["baseUrl"],
		SubscriptionKey:          settings["subscriptionKey"],
		BusinessID:               settings["businessId"],
		SchemaVersion:            settings["schemaVersion"],
		TransactionStatusMessage: settings["transactionStatusMessage"],
	}
	if v := settings["timeout"]; v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &provider.ConfigurationError{Provider: ProviderName, Reason: "invalid timeout: " + err.Error()}
		}
		cfg.Timeout = timeout
	}
	if v := settings["assertTransactionStatus"]; v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, &provider.ConfigurationError{Provider: ProviderName, Reason: "invalid assertTransactionStatus: " + err.Error()}
		}
		cfg.AssertTransactionStatus = enabled
	}
	return cfg, nil
}

// Use builds a client, runs fn and closes the client however fn returns.
func Use(cfg Config, fn func(*Client) error, opts ...Option) (err error) {
	client, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(client)
}

// Name implements provider.Gateway.
func (c *Client) Name() string {
	return ProviderName
}

// Cards returns the card payment adapter.
func (c *Client) Cards() *CardPayment {
	c.cardsOnce.Do(func() {
		c.cards = &CardPayment{
			transport:  c.transport,
			schema:     c.schema,
			businessID: c.config.BusinessID,
			logger:     c.logger.With().Str("adapter", "card").Logger(),
		}
	})
	return c.cards
}

// BankTransfers returns the bank transfer adapter.
func (c *Client) BankTransfers() *BankTransfer {
	c.bankOnce.Do(func() {
		b := &BankTransfer{
			transport:  c.transport,
			schema:     c.schema,
			businessID: c.config.BusinessID,
			logger:     c.logger.With().Str("adapter", "bank_transfer").Logger(),
		}
		if c.config.AssertTransactionStatus {
			b.statusExpectation = transactionStatusExpectation(c.config.TransactionStatusMessage)
		}
		c.bank = b
	})
	return c.bank
}

// Close releases the transport. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}
