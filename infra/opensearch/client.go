package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/paybridge/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	index  string
}

// NewClient creates a new OpenSearch client and makes sure the log index
// exists.
func NewClient(ctx context.Context, cfg config.OpenSearchConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.URL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // For development/testing
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	// Add authentication if configured
	if cfg.User != "" && cfg.Password != "" {
		opensearchConfig.Username = cfg.User
		opensearchConfig.Password = cfg.Password
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, fmt.Errorf("opensearch: %w", err)
	}

	index := cfg.Index
	if index == "" {
		index = "paybridge-logs"
	}

	osClient := &Client{client: client, index: index}
	if err := osClient.setupIndex(ctx); err != nil {
		return nil, err
	}
	return osClient, nil
}

// IndexName returns the index log events are written to.
func (c *Client) IndexName() string {
	return c.index
}

func (c *Client) setupIndex(ctx context.Context) error {
	exists, err := c.indexExists(ctx)
	if err != nil {
		return fmt.Errorf("opensearch: check index %s: %w", c.index, err)
	}
	if exists {
		return nil
	}
	if err := c.createLogIndex(ctx); err != nil {
		return fmt.Errorf("opensearch: create index %s: %w", c.index, err)
	}
	return nil
}

// indexExists checks if an index exists
func (c *Client) indexExists(ctx context.Context) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{c.index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

// createLogIndex creates the index with a mapping for the fields adapters log
func (c *Client) createLogIndex(ctx context.Context) error {
	mapping := `{
		"mappings": {
			"properties": {
				"time": {
					"type": "date",
					"format": "strict_date_optional_time||epoch_millis"
				},
				"level": {
					"type": "keyword"
				},
				"message": {
					"type": "text"
				},
				"service": {
					"type": "keyword"
				},
				"provider": {
					"type": "keyword"
				},
				"adapter": {
					"type": "keyword"
				},
				"method": {
					"type": "keyword"
				},
				"path": {
					"type": "keyword"
				},
				"status_code": {
					"type": "integer"
				},
				"request_id": {
					"type": "keyword"
				},
				"transactionId": {
					"type": "keyword"
				},
				"reference": {
					"type": "keyword"
				},
				"error": {
					"type": "object",
					"properties": {
						"code": {
							"type": "integer"
						},
						"message": {
							"type": "text"
						},
						"context": {
							"type": "object"
						}
					}
				}
			}
		},
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		}
	}`

	req := opensearchapi.IndicesCreateRequest{
		Index: c.index,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}
