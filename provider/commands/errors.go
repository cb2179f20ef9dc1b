package commands

import (
	"errors"
	"fmt"
)

// Error codes a conforming provider may surface to a dApp. Any other failure
// is folded into an internal error.
const (
	CodeUserRejected       = 4001
	CodeUnsupportedMethod  = 4100
	CodeNotConnected       = 4200
	CodeInvalidParams      = 4300
	CodeChainNotRecognized = 4902

	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeInternalError  = -32603
)

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Fixed provider error taxonomy.
var (
	ErrUserRejected       = &RPCError{Code: CodeUserRejected, Message: "user rejected request"}
	ErrUnsupportedMethod  = &RPCError{Code: CodeUnsupportedMethod, Message: "the requested method is not supported by this provider"}
	ErrNotConnected       = &RPCError{Code: CodeNotConnected, Message: "provider is not connected to the requesting dApp"}
	ErrInvalidParams      = &RPCError{Code: CodeInvalidParams, Message: "invalid or malformed request parameters"}
	ErrChainNotRecognized = &RPCError{Code: CodeChainNotRecognized, Message: "unrecognized chain ID, try adding the chain first"}

	ErrParseError     = &RPCError{Code: CodeParseError, Message: "failed to parse request"}
	ErrInvalidRequest = &RPCError{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrInternalError  = &RPCError{Code: CodeInternalError, Message: "internal error"}
)

// InvalidParams returns a 4300 error with a call-specific message.
func InvalidParams(message string) *RPCError {
	return &RPCError{Code: CodeInvalidParams, Message: message}
}

// AsRPCError extracts an *RPCError from err, folding unknown errors into the
// internal error so implementation details never leak onto the wire.
func AsRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return ErrInternalError
}
