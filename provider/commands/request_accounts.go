package commands

import (
	"context"

	"github.com/dappbridge/walletd/provider/chainutils"
	persistence "github.com/dappbridge/walletd/provider/database"
	"github.com/dappbridge/walletd/signal"
)

// RequestAccountsCommand handles eth_requestAccounts. A first-time dApp goes
// through user approval; a dApp with a live session gets its account back
// without prompting.
type RequestAccountsCommand struct {
	ClientHandler ClientSideHandlerInterface
	AccountsCommand
}

func (c *RequestAccountsCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	session, err := persistence.SelectDAppSessionByOrigin(c.Db, request.Origin)
	if err != nil {
		return nil, err
	}

	if session == nil {
		account, chainID, err := c.ClientHandler.RequestShareAccountForDApp(request.DAppData())
		if err != nil {
			return nil, err
		}

		session = &persistence.DAppSession{
			Origin:        request.Origin,
			Name:          request.DAppName,
			IconURL:       request.DAppIconURL,
			SharedAccount: account,
			ChainID:       chainID,
		}

		if err := persistence.UpsertDAppSession(c.Db, session); err != nil {
			return nil, err
		}

		signal.SendSessionGranted(request.DAppData(), session.SharedAccount.Hex(), chainutils.HexChainID(chainID))
	}

	return FormatAccountAddressToResponse(session.SharedAccount), nil
}
