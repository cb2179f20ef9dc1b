package commands

import (
	"context"
	"database/sql"

	"github.com/dappbridge/walletd/provider/chainutils"
	persistence "github.com/dappbridge/walletd/provider/database"
	"github.com/dappbridge/walletd/signal"
)

// SwitchChainCommand handles wallet_switchEthereumChain. It only ever
// switches to a chain the registry already recognizes; remediation through
// wallet_addEthereumChain is the caller's job.
type SwitchChainCommand struct {
	Db             *sql.DB
	NetworkManager NetworkManagerInterface
}

type switchChainParameter struct {
	ChainID string `json:"chainId"`
}

func (r *RPCRequest) switchChainID() (uint64, error) {
	var param switchChainParameter
	if err := r.objectParam(&param); err != nil {
		return 0, err
	}

	chainID, err := chainutils.ParseHexChainID(param.ChainID)
	if err != nil {
		return 0, ErrInvalidParams
	}
	return chainID, nil
}

func (c *SwitchChainCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	requestedChainID, err := request.switchChainID()
	if err != nil {
		return nil, err
	}

	if c.NetworkManager.Find(requestedChainID) == nil {
		return nil, ErrChainNotRecognized
	}

	session, err := persistence.SelectDAppSessionByOrigin(c.Db, request.Origin)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotConnected
	}

	// Switching to the already-active chain succeeds trivially.
	if session.ChainID == requestedChainID {
		return nil, nil
	}

	session.ChainID = requestedChainID
	if err := persistence.UpsertDAppSession(c.Db, session); err != nil {
		return nil, err
	}

	signal.SendChainSwitched(request.DAppData(), chainutils.HexChainID(requestedChainID))

	return nil, nil
}
