package kong

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/murabei/pumpwood-kong/internal/metrics"
)

//go:generate mockgen -destination=mocks/doer.go -package=mocks . Doer

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	// Address is the base URL of the Kong admin API, e.g. http://localhost:8001.
	Address string
	// Timeouts are the defaults sent with service registrations.
	Timeouts   Timeouts
	HTTPClient Doer
	Logger     hclog.Logger
}

// Client talks to the Kong admin API. It holds no state besides its
// configuration and is safe to share between goroutines.
type Client struct {
	address  string
	timeouts Timeouts
	client   Doer
	logger   hclog.Logger
}

func CreateClient(config ClientConfig) (*Client, error) {
	address := strings.TrimSuffix(config.Address, "/")
	if address == "" {
		return nil, configurationError("gateway address must be provided")
	}
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, configurationError("parsing gateway address %q: %v", address, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, configurationError("gateway address %q must use http or https", address)
	}
	if parsed.Host == "" {
		return nil, configurationError("gateway address %q has no host", address)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		address:  address,
		timeouts: config.Timeouts.withDefaults(DefaultTimeouts()),
		client:   httpClient,
		logger:   logger,
	}, nil
}

// Address returns the admin API base URL without a trailing slash.
func (c *Client) Address() string {
	return c.address
}

// Timeouts returns the defaults applied to service registrations.
func (c *Client) Timeouts() Timeouts {
	return c.timeouts
}

func (c *Client) target(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.address + path
}

// do sends one request and decodes a JSON response into out when out is not
// nil. endpoint is the unexpanded path template used as a metrics label.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out interface{}) error {
	target := c.target(path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Trace("sending request", "method", method, "url", target)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.Registry.Admin.RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Registry.Admin.Requests.WithLabelValues(method, endpoint, "error").Inc()
		return &GatewayRequestError{Kind: transportKind(err), Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()
	metrics.Registry.Admin.Requests.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayRequestError{Kind: transportKind(err), Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("gateway returned an error", "method", method, "url", target, "status", resp.StatusCode)
		return &GatewayRequestError{
			Kind:       KindHTTPError,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &GatewayRequestError{Kind: KindDecodeError, Method: method, URL: target, StatusCode: resp.StatusCode, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &GatewayRequestError{Kind: KindDecodeError, Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(data), Err: err}
	}
	return nil
}

// listAll reads a collection endpoint, following "next" links until Kong
// reports no further page.
func listAll[T any](ctx context.Context, c *Client, endpoint, path string) ([]T, error) {
	items := []T{}
	for path != "" {
		var current page[T]
		if err := c.do(ctx, http.MethodGet, endpoint, path, nil, &current); err != nil {
			return nil, err
		}
		items = append(items, current.Data...)
		if current.Next == path {
			break
		}
		path = current.Next
	}
	return items, nil
}
