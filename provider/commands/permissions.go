package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	persistence "github.com/dappbridge/walletd/provider/database"
	"github.com/dappbridge/walletd/signal"
)

// Permission mirrors the EIP-2255 permission object.
type Permission struct {
	ParentCapability string `json:"parentCapability"`
	Date             string `json:"date"`
}

// GetPermissionsCommand handles wallet_getPermissions. A connected dApp holds
// exactly the eth_accounts capability.
type GetPermissionsCommand struct {
	Db *sql.DB
}

func (c *GetPermissionsCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	session, err := persistence.SelectDAppSessionByOrigin(c.Db, request.Origin)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []Permission{}, nil
	}

	return []Permission{
		{
			ParentCapability: "eth_accounts",
			Date:             fmt.Sprintf("%d", time.Now().UnixMilli()),
		},
	}, nil
}

// RevokePermissionsCommand handles wallet_revokePermissions by tearing the
// dApp session down.
type RevokePermissionsCommand struct {
	Db *sql.DB
}

func (c *RevokePermissionsCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
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

	if err := persistence.DeleteDAppSession(c.Db, session.Origin); err != nil {
		return nil, err
	}

	signal.SendSessionRevoked(request.DAppData())

	return nil, nil
}
