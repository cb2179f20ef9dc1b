package client

import (
	"errors"
	"fmt"
)

// Provider error codes, as fixed by the wallet provider contract.
const (
	CodeUserRejected       = 4001
	CodeUnsupportedMethod  = 4100
	CodeNotConnected       = 4200
	CodeInvalidParams      = 4300
	CodeChainNotRecognized = 4902
)

// RPCError is a JSON-RPC error returned by the provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func hasCode(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// IsUserRejected reports whether the user declined the request. The caller
// should stop; retrying will only prompt the user again.
func IsUserRejected(err error) bool { return hasCode(err, CodeUserRejected) }

// IsUnsupportedMethod reports whether the provider lacks the capability at
// all. Treat the capability as absent rather than retrying.
func IsUnsupportedMethod(err error) bool { return hasCode(err, CodeUnsupportedMethod) }

// IsNotConnected reports whether the provider has no session for this dApp.
// The remediation is to reconnect via RequestAccounts.
func IsNotConnected(err error) bool { return hasCode(err, CodeNotConnected) }

// IsInvalidParams reports whether the request parameters were malformed. Fix
// the request; do not retry blindly.
func IsInvalidParams(err error) bool { return hasCode(err, CodeInvalidParams) }

// IsUnrecognizedChain reports whether the provider does not know the chain.
// The remediation is AddChain followed by a retried switch; see EnsureChain.
func IsUnrecognizedChain(err error) bool { return hasCode(err, CodeChainNotRecognized) }
