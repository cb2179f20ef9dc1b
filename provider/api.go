package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/dappbridge/walletd/provider/commands"
)

// API is the dApp-facing JSON-RPC surface. Registered commands handle the
// wallet methods locally; anything else is proxied upstream when proxying is
// enabled.
type API struct {
	s *Service
	r *CommandRegistry
	c *commands.ClientSideHandler
}

func NewAPI(s *Service) *API {
	r := NewCommandRegistry()
	c := commands.NewClientSideHandler()

	// Accounts query and dApp sessions
	r.Register("eth_accounts", &commands.AccountsCommand{Db: s.db})
	r.Register("eth_requestAccounts", &commands.RequestAccountsCommand{
		ClientHandler:   c,
		AccountsCommand: commands.AccountsCommand{Db: s.db},
	})
	r.Register("wallet_getPermissions", &commands.GetPermissionsCommand{Db: s.db})
	r.Register("wallet_revokePermissions", &commands.RevokePermissionsCommand{Db: s.db})

	// Active chain per dApp management
	r.Register("eth_chainId", &commands.ChainIDCommand{Db: s.db})
	r.Register("wallet_switchEthereumChain", &commands.SwitchChainCommand{
		Db:             s.db,
		NetworkManager: s.nm,
	})
	r.Register("wallet_addEthereumChain", &commands.AddChainCommand{
		Db:             s.db,
		NetworkManager: s.nm,
	})

	return &API{
		s: s,
		r: r,
		c: c,
	}
}

// CallRPC executes one JSON-RPC exchange and always returns a full response
// envelope; failures are folded into the error member.
func (api *API) CallRPC(ctx context.Context, inputJSON string) string {
	request, err := commands.RPCRequestFromJSON(inputJSON)
	if err != nil {
		return marshalErrorResponse(0, commands.ErrParseError)
	}

	if request.Method == "" {
		return marshalErrorResponse(request.ID, commands.ErrInvalidRequest)
	}

	if command, exists := api.r.GetCommand(request.Method); exists {
		result, err := command.Execute(ctx, request)
		if err != nil {
			rpcErr := commands.AsRPCError(err)
			if rpcErr == commands.ErrInternalError {
				api.s.logger.Error("command failed",
					zap.String("method", request.Method),
					zap.String("origin", request.Origin),
					zap.Error(err))
			}
			countCallError(request.Method, rpcErr.Code)
			return marshalErrorResponse(request.ID, rpcErr)
		}

		response, err := marshalSuccessResponse(request.ID, result)
		if err != nil {
			countCallError(request.Method, commands.CodeInternalError)
			return marshalErrorResponse(request.ID, commands.ErrInternalError)
		}
		countCallSuccess(request.Method)
		return response
	}

	if api.s.rpc != nil {
		// The upstream answers with its own envelope; count the call as
		// proxied rather than guessing its outcome.
		countCallProxied(request.Method)
		return api.s.rpc.CallRaw(inputJSON)
	}

	countCallError(request.Method, commands.CodeUnsupportedMethod)
	return marshalErrorResponse(request.ID, commands.ErrUnsupportedMethod)
}

// SessionApproved is called by the wallet UI when the user approves a
// pending eth_requestAccounts prompt.
func (api *API) SessionApproved(args commands.SessionApprovalArgs) error {
	return api.c.SessionApproved(args)
}

// SessionRejected is called by the wallet UI when the user declines.
func (api *API) SessionRejected(args commands.RejectedArgs) error {
	return api.c.SessionRejected(args)
}

// Stop releases the approval plumbing.
func (api *API) Stop() {
	api.c.Stop()
}
