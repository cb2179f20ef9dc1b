package commands

import (
	"context"
	"database/sql"

	"github.com/dappbridge/walletd/provider/chainutils"
	persistence "github.com/dappbridge/walletd/provider/database"
)

// ChainIDCommand handles eth_chainId for the requesting dApp's session.
type ChainIDCommand struct {
	Db *sql.DB
}

func (c *ChainIDCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	session, err := persistence.SelectDAppSessionByOrigin(c.Db, request.Origin)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotConnected
	}

	return chainutils.HexChainID(session.ChainID), nil
}
