package commands

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	persistence "github.com/dappbridge/walletd/provider/database"
)

// AccountsCommand handles eth_accounts.
type AccountsCommand struct {
	Db *sql.DB
}

// FormatAccountAddressToResponse lowercases the address the way dApp
// tooling expects account lists.
func FormatAccountAddressToResponse(address common.Address) []string {
	return []string{strings.ToLower(address.Hex())}
}

func (c *AccountsCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
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

	return FormatAccountAddressToResponse(session.SharedAccount), nil
}
