package commands

import (
	"context"
	"encoding/json"

	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/signal"
)

// RPCRequest is the JSON-RPC envelope a dApp sends, extended with the dApp
// identification the embedding surface (browser extension, walletconnect
// bridge) attaches to every request.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`

	Origin      string `json:"origin"`
	DAppName    string `json:"name"`
	DAppIconURL string `json:"iconUrl"`
}

// RPCCommand handles a single provider method.
type RPCCommand interface {
	Execute(ctx context.Context, request RPCRequest) (interface{}, error)
}

// NetworkManagerInterface is the slice of the chain registry the commands
// consume.
type NetworkManagerInterface interface {
	GetActiveNetworks() ([]*params.Network, error)
	Find(chainID uint64) *params.Network
	Upsert(network *params.Network) error
}

// RPCClientInterface proxies raw calls to the routing RPC client.
type RPCClientInterface interface {
	CallRaw(body string) string
}

// RPCRequestFromJSON parses a raw request body.
func RPCRequestFromJSON(inputJSON string) (RPCRequest, error) {
	var request RPCRequest
	if err := json.Unmarshal([]byte(inputJSON), &request); err != nil {
		return RPCRequest{}, ErrParseError
	}
	return request, nil
}

// Validate rejects requests that carry no dApp identification. Without an
// origin there is no session to resolve the request against.
func (r *RPCRequest) Validate() error {
	if r.Origin == "" {
		return ErrInvalidParams
	}
	return nil
}

// DAppData returns the signal-facing identification of the requesting dApp.
func (r *RPCRequest) DAppData() signal.DApp {
	return signal.DApp{
		Origin:  r.Origin,
		Name:    r.DAppName,
		IconURL: r.DAppIconURL,
	}
}

// objectParam decodes the single object parameter at index 0 into dst.
// Methods with object parameters take exactly one.
func (r *RPCRequest) objectParam(dst interface{}) error {
	if len(r.Params) != 1 {
		return ErrInvalidParams
	}
	data, err := json.Marshal(r.Params[0])
	if err != nil {
		return ErrInvalidParams
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return ErrInvalidParams
	}
	return nil
}
