package client

import (
	"context"
	"encoding/json"

	"github.com/dappbridge/walletd/provider/chainutils"
)

// SwitchChainParams is the single wallet_switchEthereumChain parameter.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// NativeCurrency describes the chain's gas token in AddChainParams.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint64 `json:"decimals"`
}

// AddChainParams is the single wallet_addEthereumChain parameter.
type AddChainParams struct {
	ChainID           string          `json:"chainId"`
	ChainName         string          `json:"chainName"`
	RPCURLs           []string        `json:"rpcUrls"`
	BlockExplorerURLs []string        `json:"blockExplorerUrls,omitempty"`
	IconURLs          []string        `json:"iconUrls,omitempty"`
	NativeCurrency    *NativeCurrency `json:"nativeCurrency,omitempty"`
}

// SwitchChain asks the provider to switch its active chain for this dApp.
// The chainID must be 0x-prefixed hex; it is validated locally so malformed
// input never reaches the wire.
func (c *Client) SwitchChain(ctx context.Context, chainID string) error {
	if _, err := chainutils.ParseHexChainID(chainID); err != nil {
		return err
	}
	_, err := c.Request(ctx, "wallet_switchEthereumChain", SwitchChainParams{ChainID: chainID})
	return err
}

// AddChain registers a chain with the provider.
func (c *Client) AddChain(ctx context.Context, params AddChainParams) error {
	_, err := c.Request(ctx, "wallet_addEthereumChain", params)
	return err
}

// EnsureChain switches to the chain described by params, adding it first when
// the provider does not recognize it. This is the documented remediation for
// the unrecognized-chain error: switch, add on 4902, retry the switch once.
// Every other error surfaces unchanged.
func (c *Client) EnsureChain(ctx context.Context, params AddChainParams) error {
	err := c.SwitchChain(ctx, params.ChainID)
	if err == nil || !IsUnrecognizedChain(err) {
		return err
	}

	if err := c.AddChain(ctx, params); err != nil {
		return err
	}
	return c.SwitchChain(ctx, params.ChainID)
}

// ChainID returns the numeric chain ID active for this dApp.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	result, err := c.Request(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	var hexChainID string
	if err := json.Unmarshal(result, &hexChainID); err != nil {
		return 0, err
	}
	return chainutils.ParseHexChainID(hexChainID)
}

// Accounts returns the accounts already shared with this dApp.
func (c *Client) Accounts(ctx context.Context) ([]string, error) {
	return c.stringListCall(ctx, "eth_accounts")
}

// RequestAccounts asks the provider for account access, prompting the user
// when no session exists yet.
func (c *Client) RequestAccounts(ctx context.Context) ([]string, error) {
	return c.stringListCall(ctx, "eth_requestAccounts")
}

func (c *Client) stringListCall(ctx context.Context, method string) ([]string, error) {
	result, err := c.Request(ctx, method)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(result, &list); err != nil {
		return nil, err
	}
	return list, nil
}
