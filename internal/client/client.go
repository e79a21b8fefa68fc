package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/pixelcfg/internal/logging"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// ConfigPath is the configuration form of a controller
	ConfigPath = "/config/pixel"

	// ValuesPath is the values page of a controller
	ValuesPath = "/config/pixelvals"

	maxValuesSize = 64 << 10
)

// Client talks to a pixel controller over HTTP
type Client struct {
	// BaseURL is the base URL for the controller (e.g., "http://192.168.4.16:80")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a client for the controller at host:port
func NewClient(host string, port int) *Client {
	u := url.URL{Scheme: "http", Host: joinHostPort(host, port)}
	return NewClientWithURL(u.String())
}

// NewClientWithURL creates a new client with a full base URL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               baseURL,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

func joinHostPort(host string, port int) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	if port == 0 {
		port = 80
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks that the host serves the configuration page. It sends no
// arguments, so nothing on the controller changes.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx, ConfigPath, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
	return nil
}

// GetValues fetches and parses the values page.
func (c *Client) GetValues(ctx context.Context) (*pixelconfig.Values, error) {
	var values *pixelconfig.Values
	err := c.withRetry(ctx, func() error {
		var err error
		values, err = c.getValuesAttempt(ctx)
		return err
	})
	return values, err
}

// GetConfig returns the controller's current configuration.
func (c *Client) GetConfig(ctx context.Context) (pixelconfig.PixelConfig, error) {
	values, err := c.GetValues(ctx)
	if err != nil {
		return pixelconfig.PixelConfig{}, err
	}
	return values.Config, nil
}

func (c *Client) getValuesAttempt(ctx context.Context) (*pixelconfig.Values, error) {
	resp, err := c.get(ctx, ValuesPath, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxValuesSize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	values, err := pixelconfig.ParseValues(body)
	if err != nil {
		return nil, NewParseError("failed to parse values page", err)
	}
	if len(values.Unknown) > 0 {
		logging.Debug("Controller reported unknown fields", zap.Strings("lines", values.Unknown))
	}
	return values, nil
}

// Update submits the configuration form with the fields set in update.
// An empty update is a no-op, since a request without arguments does not
// save anything.
func (c *Client) Update(ctx context.Context, update *Update) error {
	query := update.ToQuery()
	if len(query) == 0 {
		return nil
	}

	return c.withRetry(ctx, func() error {
		resp, err := c.get(ctx, ConfigPath, query)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return NewHTTPError(resp.StatusCode, fmt.Sprintf("update failed with status %d", resp.StatusCode))
		}
		return nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}

	logging.Debug("Controller request", zap.String("url", target))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		devErr := NewNetworkError("request failed", err)
		devErr.Host = req.URL.Hostname()
		if ctx.Err() != nil {
			devErr.Retryable = false
		}
		return nil, devErr
	}
	return resp, nil
}

// withRetry runs attempt until it succeeds, fails with a non-retryable
// error, or MaxRetries is exhausted.
func (c *Client) withRetry(ctx context.Context, attempt func() error) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			logging.Debug("Retrying controller request",
				zap.Int("attempt", i+1),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			if err := sleep(ctx, currentDelay); err != nil {
				return lastErr
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
