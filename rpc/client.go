package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/dappbridge/walletd/circuitbreaker"
	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/rpc/network"
)

const (
	// DefaultCallTimeout is a default timeout for an RPC call
	DefaultCallTimeout = time.Minute

	jsonrpcVersion = "2.0"
)

// List of RPC client errors.
var (
	ErrMethodNotFound     = fmt.Errorf("the method does not exist/is not available")
	ErrNoUpstream         = fmt.Errorf("no upstream configured for remote call")
	ErrInvalidRequestBody = fmt.Errorf("invalid request body")
)

// Handler defines handler for RPC methods.
type Handler func(context.Context, ...interface{}) (interface{}, error)

// ClientInterface is the surface the provider service consumes.
type ClientInterface interface {
	Call(result interface{}, method string, args ...interface{}) error
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	CallRaw(body string) string
	GetNetworkManager() *network.Manager
}

// Client represents an RPC client with custom routing scheme. Locally
// registered handlers take precedence; everything else goes to the upstream
// node, behind a circuit breaker.
//
// Client is safe for concurrent use.
type Client struct {
	sync.RWMutex

	upstreamEnabled bool
	upstreamURL     string
	upstream        *gethrpc.Client

	router  *router
	breaker *circuitbreaker.CircuitBreaker
	nm      *network.Manager

	handlersMx sync.RWMutex       // mx guards handlers
	handlers   map[string]Handler // locally registered handlers
	logger     *zap.Logger
}

// NewClient initializes Client and dials the upstream node when one is
// configured.
func NewClient(upstream params.UpstreamRPCConfig, nm *network.Manager, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := Client{
		handlers: make(map[string]Handler),
		router:   newRouter(),
		breaker:  circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		nm:       nm,
		logger:   logger.Named("rpcClient"),
	}

	if upstream.Enabled {
		c.upstreamEnabled = true
		c.upstreamURL = upstream.URL

		var err error
		c.upstream, err = gethrpc.Dial(c.upstreamURL)
		if err != nil {
			return nil, fmt.Errorf("dial upstream server: %s", err)
		}
	}

	return &c, nil
}

// GetNetworkManager returns the chain registry the client was built with.
func (c *Client) GetNetworkManager() *network.Manager {
	return c.nm
}

// UpdateUpstreamURL changes the upstream RPC client URL, if the upstream is enabled.
func (c *Client) UpdateUpstreamURL(url string) error {
	if c.upstream == nil {
		return nil
	}

	rpcClient, err := gethrpc.Dial(url)
	if err != nil {
		return err
	}

	c.Lock()
	c.upstream = rpcClient
	c.upstreamURL = url
	c.Unlock()

	return nil
}

// Call performs a JSON-RPC call with the given arguments and unmarshals into
// result if no error occurred.
//
// The result must be a pointer so that package json can unmarshal into it. You
// can also pass nil, in which case the result is ignored.
func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	ctx := context.Background()
	return c.CallContext(ctx, result, method, args...)
}

// CallContext performs a JSON-RPC call with the given arguments. If the context is
// canceled before the call has successfully returned, CallContext returns immediately.
//
// If there are any local handlers registered for this call, they will handle it.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if c.router.routeBlocked(method) {
		return ErrMethodNotFound
	}

	// check locally registered handlers first
	if handler, ok := c.handler(method); ok {
		return c.callMethod(ctx, result, handler, args...)
	}

	return c.callUpstream(ctx, result, method, args...)
}

// callUpstream forwards a call to the upstream node through the circuit
// breaker. One circuit per upstream URL.
func (c *Client) callUpstream(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	c.RLock()
	client := c.upstream
	circuitName := c.upstreamURL
	c.RUnlock()

	if client == nil {
		return ErrNoUpstream
	}

	return c.breaker.Execute(ctx, circuitName, func(ctx context.Context) error {
		return client.CallContext(ctx, result, method, args...)
	})
}

// CallRaw performs a JSON-RPC call on a raw request body and always returns a
// full JSON-RPC response envelope, folding any error into the error member.
func (c *Client) CallRaw(body string) string {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultCallTimeout)
	defer cancel()

	var req jsonrpcMessage
	if err := json.Unmarshal([]byte(body), &req); err != nil || req.Method == "" {
		return newErrorResponse(req.ID, -32600, ErrInvalidRequestBody.Error())
	}

	var args []interface{}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &args); err != nil {
			return newErrorResponse(req.ID, -32602, "invalid params")
		}
	}

	var result json.RawMessage
	if err := c.CallContext(ctx, &result, req.Method, args...); err != nil {
		code := -32603
		var rpcErr gethrpc.Error
		if errors.As(err, &rpcErr) {
			code = rpcErr.ErrorCode()
		}
		return newErrorResponse(req.ID, code, err.Error())
	}

	return newSuccessResponse(req.ID, result)
}

// RegisterHandler registers local handler for specific RPC method.
//
// If method is registered, it will be executed with given handler and
// never routed to the upstream node.
func (c *Client) RegisterHandler(method string, handler Handler) {
	c.handlersMx.Lock()
	defer c.handlersMx.Unlock()

	c.handlers[method] = handler
}

// callMethod calls registered RPC handler with given args and pointer to result.
// It handles proper params and result converting.
func (c *Client) callMethod(ctx context.Context, result interface{}, handler Handler, args ...interface{}) error {
	response, err := handler(ctx, args...)
	if err != nil {
		return err
	}

	// if result is nil, just ignore result -
	// the same way as gethrpc.CallContext() caller would expect
	if result == nil {
		return nil
	}

	return setResultFromRPCResponse(result, response)
}

// handler is a concurrently safe method to get registered handler by name.
func (c *Client) handler(method string) (Handler, bool) {
	c.handlersMx.RLock()
	defer c.handlersMx.RUnlock()
	handler, ok := c.handlers[method]
	return handler, ok
}

type jsonrpcMessage struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonError      `json:"error,omitempty"`
}

type jsonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newSuccessResponse(id json.RawMessage, result json.RawMessage) string {
	if result == nil {
		result = json.RawMessage("null")
	}
	data, _ := json.Marshal(jsonrpcMessage{Version: jsonrpcVersion, ID: id, Result: result})
	return string(data)
}

func newErrorResponse(id json.RawMessage, code int, message string) string {
	data, _ := json.Marshal(jsonrpcMessage{Version: jsonrpcVersion, ID: id, Error: &jsonError{Code: code, Message: message}})
	return string(data)
}

// setResultFromRPCResponse tries to set result value from response using reflection
// as concrete types are unknown.
func setResultFromRPCResponse(result, response interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid result type: %s", r)
		}
	}()

	responseValue := reflect.ValueOf(response)

	// If it is called via CallRaw, result has type json.RawMessage and
	// we should marshal the response before setting it.
	// Otherwise, it is called with CallContext and result is of concrete type,
	// thus we should try to set it as it is.
	switch reflect.ValueOf(result).Elem().Type() {
	case reflect.TypeOf(json.RawMessage{}), reflect.TypeOf([]byte{}):
		data, err := json.Marshal(response)
		if err != nil {
			return err
		}

		responseValue = reflect.ValueOf(data)
	}

	value := reflect.ValueOf(result).Elem()
	if !value.CanSet() {
		return errors.New("can't assign value to result")
	}
	value.Set(responseValue)

	return nil
}
