package paystack

import (
	"net/http"
	"sync"
	"time"

	"github.com/mstgnz/paybridge/provider"
	"github.com/rs/zerolog"
)

const (
	// ProviderName is the registry name of the Paystack adapter.
	ProviderName = "paystack"

	// DefaultBaseURL is the public Paystack API.
	DefaultBaseURL = "https://api.paystack.co"

	defaultTimeout = 30 * time.Second
)

// Config holds the Paystack credentials.
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	transport  provider.Transport
	httpClient *http.Client
	logger     zerolog.Logger
	schema     *provider.Schema
}

// WithTransport replaces the HTTP transport.
func WithTransport(t provider.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSchema overrides the default schema.
func WithSchema(s *provider.Schema) Option {
	return func(o *options) { o.schema = s }
}

// Client is a configured Paystack client. It is safe for concurrent use and
// must be closed to release its transport.
type Client struct {
	transport provider.Transport
	schema    *provider.Schema
	logger    zerolog.Logger

	transactionsOnce sync.Once
	transactions     *TransactionHandler

	closeOnce sync.Once
	closeErr  error
}

// New validates cfg and builds a client.
func New(cfg Config, opts ...Option) (*Client, error) {
	var missing []string
	if cfg.BaseURL == "" {
		missing = append(missing, "baseUrl")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "secretKey")
	}
	if len(missing) > 0 {
		return nil, &provider.ConfigurationError{Provider: ProviderName, Fields: missing}
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.schema == nil {
		o.schema = provider.NewSchema()
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
				"Accept":        "application/json",
				"Authorization": "Bearer " + cfg.SecretKey,
			},
			PostHeaders: map[string]string{"Cache-Control": "no-cache"},
			Client:      o.httpClient,
			Logger:      logger,
		})
	}

	return &Client{transport: transport, schema: o.schema, logger: logger}, nil
}

// RequiredConfig describes the settings accepted by NewFromConfig.
func RequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "baseUrl",
			Required:    true,
			Type:        "url",
			Description: "Paystack API base URL",
			Example:     DefaultBaseURL,
		},
		{
			Key:         "secretKey",
			Required:    true,
			Type:        "string",
			Description: "Paystack secret key",
			Example:     "sk_test_xxxxxxxxxxxxxxxx",
			Pattern:     "^sk_(test|live)_",
		},
		{
			Key:         "timeout",
			Required:    false,
			Type:        "duration",
			Description: "HTTP timeout",
			Example:     "30s",
		},
	}
}

// NewFromConfig builds a client from a settings map.
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
	cfg := Config{BaseURL: settings["baseUrl"], SecretKey: settings["secretKey"]}
	if v := settings["timeout"]; v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &provider.ConfigurationError{Provider: ProviderName, Reason: "invalid timeout: " + err.Error()}
		}
		cfg.Timeout = timeout
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

// Transactions returns the transactions adapter.
func (c *Client) Transactions() *TransactionHandler {
	c.transactionsOnce.Do(func() {
		c.transactions = &TransactionHandler{
			transport: c.transport,
			schema:    c.schema,
			logger:    c.logger.With().Str("adapter", "transactions").Logger(),
		}
	})
	return c.transactions
}

// Close releases the transport. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}
