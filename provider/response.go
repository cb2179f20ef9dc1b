package provider

import (
	"encoding/json"

	"github.com/dappbridge/walletd/provider/commands"
)

const jsonrpcVersion = "2.0"

// RPCResponse is the JSON-RPC envelope the provider returns. Exactly one of
// Result and Error is present.
type RPCResponse struct {
	JSONRPC string               `json:"jsonrpc"`
	ID      int                  `json:"id"`
	Result  json.RawMessage      `json:"result,omitempty"`
	Error   *commands.RPCError   `json:"error,omitempty"`
}

func marshalSuccessResponse(id int, result interface{}) (string, error) {
	// A nil result must serialize as an explicit null, not be omitted.
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	response, err := json.Marshal(RPCResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Result:  data,
	})
	if err != nil {
		return "", err
	}
	return string(response), nil
}

func marshalErrorResponse(id int, rpcErr *commands.RPCError) string {
	response, _ := json.Marshal(RPCResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error:   rpcErr,
	})
	return string(response)
}
