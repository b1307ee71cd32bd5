package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type httpClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// ClientConfig configures the upstream flight data client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryMax   int
	RetryWait  time.Duration
	MaxBodyLen int64
}

// Client fetches flight-detail records from the upstream HTTP API. It is
// safe for concurrent use by multiple goroutines.
type Client struct {
	client  httpClient
	baseURL string
	apiKey  string
	maxBody int64
}

func customRetryPolicy() func(ctx context.Context, resp *http.Response, err error) (bool, error) {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return false, ctx.Err()
			}
		}

		// A missing flight will not appear on retry.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
}

// NewClient returns a Client for cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("new flight client: invalid base url %q: %w", cfg.BaseURL, err)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.Logger = nil
	client.CheckRetry = customRetryPolicy()
	client.RetryWaitMin = cfg.RetryWait
	if client.RetryWaitMin <= 0 {
		client.RetryWaitMin = time.Second
	}
	if client.RetryWaitMax < client.RetryWaitMin {
		client.RetryWaitMax = client.RetryWaitMin
	}
	client.HTTPClient.Timeout = cfg.Timeout
	if client.HTTPClient.Timeout <= 0 {
		client.HTTPClient.Timeout = 30 * time.Second
	}

	maxBody := cfg.MaxBodyLen
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		maxBody: maxBody,
	}, nil
}

// Detail fetches the record for flightID from GET {base}/flights/{id}.
func (c *Client) Detail(ctx context.Context, flightID string) (*Detail, error) {
	id := NormalizeID(flightID)
	if id == "" {
		return nil, ErrFlightNotFound
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/flights/%s", c.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, fmt.Errorf("flight detail %s: build request: %w", id, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight detail %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("flight detail %s: %w", id, ErrFlightNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("flight detail %s: unexpected status code: %d", id, resp.StatusCode)
	}

	var detail Detail
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBody)).Decode(&detail); err != nil {
		return nil, fmt.Errorf("flight detail %s: decode: %w", id, err)
	}
	if detail.ID == "" {
		detail.ID = id
	}
	return &detail, nil
}
