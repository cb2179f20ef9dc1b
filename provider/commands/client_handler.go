package commands

import (
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/dappbridge/walletd/signal"
)

var (
	// WalletResponseMaxInterval bounds how long a command hangs on user
	// approval before giving up.
	WalletResponseMaxInterval = 20 * time.Minute

	ErrUnknownRequestID = errors.New("unknown or expired approval request id")
)

// SessionApprovalArgs is what the wallet UI sends back when the user approves
// a session request.
type SessionApprovalArgs struct {
	RequestID string         `json:"requestId"`
	Account   common.Address `json:"account"`
	ChainID   uint64         `json:"chainId"`
}

// RejectedArgs is what the wallet UI sends back on rejection.
type RejectedArgs struct {
	RequestID string `json:"requestId"`
}

type sessionApproval struct {
	rejected bool
	account  common.Address
	chainID  uint64
}

// ClientSideHandlerInterface decouples commands from the approval plumbing.
type ClientSideHandlerInterface interface {
	RequestShareAccountForDApp(dApp signal.DApp) (common.Address, uint64, error)
	SessionApproved(args SessionApprovalArgs) error
	SessionRejected(args RejectedArgs) error
}

// ClientSideHandler bridges provider commands and the wallet UI: a command
// parks on a pending request until the UI answers or the request expires.
type ClientSideHandler struct {
	pending *ttlcache.Cache[string, chan sessionApproval]

	resolveMu sync.Mutex // one resolver per request id
}

func NewClientSideHandler() *ClientSideHandler {
	pending := ttlcache.New[string, chan sessionApproval](
		ttlcache.WithTTL[string, chan sessionApproval](WalletResponseMaxInterval),
		ttlcache.WithDisableTouchOnHit[string, chan sessionApproval](),
	)
	go pending.Start()

	return &ClientSideHandler{
		pending: pending,
	}
}

func (c *ClientSideHandler) Stop() {
	c.pending.Stop()
}

// RequestShareAccountForDApp emits a session request signal and blocks until
// the user answers or the request times out. Timeouts surface as rejection.
func (c *ClientSideHandler) RequestShareAccountForDApp(dApp signal.DApp) (common.Address, uint64, error) {
	requestID := uuid.NewString()
	response := make(chan sessionApproval, 1) // Buffer of 1 to avoid blocking the UI side

	c.pending.Set(requestID, response, ttlcache.DefaultTTL)
	defer c.pending.Delete(requestID)

	signal.SendSessionRequested(dApp, requestID)

	select {
	case approval := <-response:
		if approval.rejected {
			return common.Address{}, 0, ErrUserRejected
		}
		return approval.account, approval.chainID, nil
	case <-time.After(WalletResponseMaxInterval):
		return common.Address{}, 0, ErrUserRejected
	}
}

// SessionApproved resolves a pending request with the account the user chose.
func (c *ClientSideHandler) SessionApproved(args SessionApprovalArgs) error {
	return c.resolve(args.RequestID, sessionApproval{account: args.Account, chainID: args.ChainID})
}

// SessionRejected resolves a pending request as denied.
func (c *ClientSideHandler) SessionRejected(args RejectedArgs) error {
	return c.resolve(args.RequestID, sessionApproval{rejected: true})
}

func (c *ClientSideHandler) resolve(requestID string, approval sessionApproval) error {
	c.resolveMu.Lock()
	item := c.pending.Get(requestID)
	if item == nil {
		c.resolveMu.Unlock()
		return ErrUnknownRequestID
	}
	c.pending.Delete(requestID)
	c.resolveMu.Unlock()

	// The waiter may be gone already; its request then counts as expired.
	select {
	case item.Value() <- approval:
		return nil
	default:
		return ErrUnknownRequestID
	}
}
