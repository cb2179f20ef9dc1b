package subaccount

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dappbridge/walletd/client"
	"github.com/dappbridge/walletd/provider/chainutils"
)

var (
	ErrNoSigner   = errors.New("sub account client requires a signer")
	ErrNoProvider = errors.New("sub account client requires a provider transport")
	ErrNoChainID  = errors.New("sub account client requires a chain id")
)

// Call is one call in a wallet_sendCalls batch.
type Call struct {
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data,omitempty"`
}

// Config wires the three external capabilities together: the key handle, the
// wallet provider transport and (optionally) a paymaster endpoint for gas
// sponsorship.
type Config struct {
	Owner   common.Address
	Index   uint64
	ChainID uint64

	Signer    Signer
	Provider  client.Provider
	Paymaster *PaymasterConfig
}

// PaymasterConfig points at an ERC-7677 paymaster service.
type PaymasterConfig struct {
	URL string `json:"url"`
}

// Client submits call batches from a derived sub-address through the wallet
// provider.
type Client struct {
	config  Config
	address common.Address
}

// NewClient validates the wiring and derives the sub-address.
func NewClient(config Config) (*Client, error) {
	if config.Signer == nil {
		return nil, ErrNoSigner
	}
	if config.Provider == nil {
		return nil, ErrNoProvider
	}
	if config.ChainID == 0 {
		return nil, ErrNoChainID
	}

	return &Client{
		config:  config,
		address: DeriveAddress(config.Owner, config.Index),
	}, nil
}

// Address returns the derived sub-account address.
func (c *Client) Address() common.Address {
	return c.address
}

type callsPayload struct {
	Version      string                 `json:"version"`
	From         common.Address         `json:"from"`
	ChainID      string                 `json:"chainId"`
	Calls        []Call                 `json:"calls"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
	Signature    hexutil.Bytes          `json:"signature,omitempty"`
}

// digest is what the signer commits to: the payload without its signature.
func (p *callsPayload) digest() (common.Hash, error) {
	unsigned := *p
	unsigned.Signature = nil

	data, err := json.Marshal(&unsigned)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}

// SendCalls signs and submits a call batch, returning the provider's bundle
// identifier.
func (c *Client) SendCalls(ctx context.Context, calls []Call) (string, error) {
	payload := &callsPayload{
		Version: "1.0",
		From:    c.address,
		ChainID: chainutils.HexChainID(c.config.ChainID),
		Calls:   calls,
	}
	if c.config.Paymaster != nil {
		payload.Capabilities = map[string]interface{}{
			"paymasterService": c.config.Paymaster,
		}
	}

	hash, err := payload.digest()
	if err != nil {
		return "", err
	}

	signature, err := c.config.Signer.SignHash(hash)
	if err != nil {
		return "", err
	}
	payload.Signature = signature

	result, err := c.config.Provider.Request(ctx, "wallet_sendCalls", payload)
	if err != nil {
		return "", err
	}

	var bundleID string
	if err := json.Unmarshal(result, &bundleID); err != nil {
		return "", err
	}
	return bundleID, nil
}
