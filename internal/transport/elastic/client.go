// Package elastic talks to the Elasticsearch cluster holding saved search data.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/metrics"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client runs searches against one index (or index pattern).
type Client struct {
	es      *es.Client
	index   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a client. It does not contact the cluster.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	address := cfg.URL
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}

	clientCfg := es.Config{
		Addresses:  []string{address},
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientCfg.Username = cfg.Username
		clientCfg.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{es: esClient, index: cfg.Index, timeout: cfg.Timeout, logger: logger}, nil
}

// Ping checks cluster availability.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	observe("ping", start, err == nil && res != nil && !res.IsError())
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return fmt.Errorf("ping elasticsearch: %s", res.Status())
	}
	return nil
}

// Search runs body against the configured index. Error responses are turned
// into errors; the caller closes the body of a successful response.
func (c *Client) Search(ctx context.Context, body map[string]any) (*esapi.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	opts := []func(*esapi.SearchRequest){
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	}
	if c.timeout > 0 {
		opts = append(opts, c.es.Search.WithTimeout(c.timeout))
	}

	start := time.Now()
	res, err := c.es.Search(opts...)
	if err != nil {
		observe("search", start, false)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if res.IsError() {
		observe("search", start, false)
		defer func() {
			_ = res.Body.Close()
		}()
		raw, _ := io.ReadAll(res.Body)
		c.logger.Warn("elasticsearch search rejected",
			zap.Int("status", res.StatusCode),
			zap.String("index", c.index),
		)
		return nil, fmt.Errorf("search returned error [%d]: %s", res.StatusCode, string(raw))
	}
	observe("search", start, true)
	return res, nil
}

func observe(op string, start time.Time, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	metrics.ElasticRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.ElasticRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
