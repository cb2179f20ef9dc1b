package provider

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/dappbridge/walletd/provider/commands"
)

// Service owns the provider state: the session database, the chain registry
// and the routing RPC client used for upstream proxying. A nil rpcClient
// disables proxying; unregistered methods then fail with 4100.
type Service struct {
	db     *sql.DB
	rpc    commands.RPCClientInterface
	nm     commands.NetworkManagerInterface
	logger *zap.Logger
}

func NewService(db *sql.DB, rpcClient commands.RPCClientInterface, nm commands.NetworkManagerInterface, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     db,
		rpc:    rpcClient,
		nm:     nm,
		logger: logger.Named("provider"),
	}
}

func (s *Service) Start() error {
	return nil
}

func (s *Service) Stop() error {
	return nil
}
