// Package client is a Go client for wallet providers speaking the JSON-RPC
// wallet method surface (wallet_switchEthereumChain and friends). It covers
// the documented remediation flows, notably the unrecognized-chain fallback.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const jsonrpcVersion = "2.0"

// Provider is a request-handling capability: one JSON-RPC exchange per call.
// RPC errors are returned as *RPCError; transport failures as plain errors.
type Provider interface {
	Request(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
}

// Message is either a JSON-RPC request or response. Origin identifies the
// calling dApp to the provider; browser dApps get it from the transport,
// other clients set it via WithOrigin.
type Message struct {
	Version string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method,omitempty"`
	Params  []interface{}   `json:"params,omitempty"`
	Origin  string          `json:"origin,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Client talks JSON-RPC over HTTP to a wallet provider endpoint. Transport
// failures are retried with exponential backoff; RPC errors never are.
//
// Client is safe for concurrent use.
type Client struct {
	url        string
	origin     string
	httpClient *http.Client
	nextID     atomic.Uint64
	maxElapsed time.Duration
	logger     *zap.Logger
}

var _ Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger attaches a logger for transport-level retries.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger.Named("walletClient") }
}

// WithMaxRetryTime bounds how long transport errors are retried. Zero
// disables retrying.
func WithMaxRetryTime(maxElapsed time.Duration) Option {
	return func(c *Client) { c.maxElapsed = maxElapsed }
}

// WithOrigin sets the dApp origin attached to every request. The provider
// refuses requests without one, so any client not running behind a browser
// (which supplies the Origin header itself) must set this.
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = origin }
}

// New creates a client for the provider endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: time.Minute},
		maxElapsed: 15 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs one JSON-RPC exchange. The returned raw message is the
// result member; a response carrying an error member yields a *RPCError.
func (c *Client) Request(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	request := Message{
		Version: jsonrpcVersion,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
		Origin:  c.origin,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var result json.RawMessage
	operation := func() error {
		response, err := c.post(ctx, body)
		if err != nil {
			c.logger.Debug("provider call failed, retrying", zap.String("method", method), zap.Error(err))
			return err
		}
		if response.Error != nil {
			// An RPC-level error is a definite answer from the provider.
			return backoff.Permanent(response.Error)
		}
		result = response.Result
		return nil
	}

	if err := backoff.Retry(operation, c.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*Message, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.origin != "" {
		request.Header.Set("Origin", c.origin)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned HTTP %d", response.StatusCode)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &message, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	if c.maxElapsed == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	return backoff.WithContext(bo, ctx)
}
