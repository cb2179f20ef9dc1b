package commands

import (
	"context"
	"database/sql"

	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/provider/chainutils"
	"github.com/dappbridge/walletd/signal"
)

// AddChainCommand handles wallet_addEthereumChain: it validates the chain
// metadata and registers the network so a follow-up switch can succeed.
type AddChainCommand struct {
	Db             *sql.DB
	NetworkManager NetworkManagerInterface
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint64 `json:"decimals"`
}

type addChainParameter struct {
	ChainID           string          `json:"chainId"`
	ChainName         string          `json:"chainName"`
	RPCURLs           []string        `json:"rpcUrls"`
	BlockExplorerURLs []string        `json:"blockExplorerUrls"`
	IconURLs          []string        `json:"iconUrls"`
	NativeCurrency    *nativeCurrency `json:"nativeCurrency"`
}

func (p *addChainParameter) toNetwork() (*params.Network, error) {
	chainID, err := chainutils.ParseHexChainID(p.ChainID)
	if err != nil {
		return nil, ErrInvalidParams
	}
	if p.ChainName == "" || len(p.RPCURLs) == 0 || p.RPCURLs[0] == "" {
		return nil, ErrInvalidParams
	}

	network := &params.Network{
		ChainID:   chainID,
		ChainName: p.ChainName,
		RPCURL:    p.RPCURLs[0],
		Enabled:   true,
	}
	if len(p.BlockExplorerURLs) > 0 {
		network.BlockExplorerURL = p.BlockExplorerURLs[0]
	}
	if len(p.IconURLs) > 0 {
		network.IconURL = p.IconURLs[0]
	}
	if p.NativeCurrency != nil {
		network.NativeCurrencyName = p.NativeCurrency.Name
		network.NativeCurrencySymbol = p.NativeCurrency.Symbol
		network.NativeCurrencyDecimals = p.NativeCurrency.Decimals
	}
	return network, nil
}

func (c *AddChainCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	var param addChainParameter
	if err := request.objectParam(&param); err != nil {
		return nil, err
	}

	network, err := param.toNetwork()
	if err != nil {
		return nil, err
	}

	// Adding an already-known chain is a no-op success.
	if c.NetworkManager.Find(network.ChainID) != nil {
		return nil, nil
	}

	if err := c.NetworkManager.Upsert(network); err != nil {
		return nil, err
	}

	signal.SendChainAdded(chainutils.HexChainID(network.ChainID), network.ChainName)

	return nil, nil
}
