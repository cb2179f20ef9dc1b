package params

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"
)

// Well-known chain IDs.
const (
	UnknownChainID  uint64 = 0
	EthereumMainnet uint64 = 1
	OptimismMainnet uint64 = 10
	PolygonMainnet  uint64 = 137
	BaseMainnet     uint64 = 8453
	ArbitrumMainnet uint64 = 42161
	EthereumSepolia uint64 = 11155111
)

// Network describes a chain known to the provider. Its shape mirrors the
// wallet_addEthereumChain parameter object so rows can round-trip through
// the RPC surface unchanged.
type Network struct {
	ChainID                uint64 `json:"chainId" validate:"required"`
	ChainName              string `json:"chainName" validate:"required"`
	RPCURL                 string `json:"rpcUrl" validate:"required,url"`
	BlockExplorerURL       string `json:"blockExplorerUrl,omitempty"`
	IconURL                string `json:"iconUrl,omitempty"`
	NativeCurrencyName     string `json:"nativeCurrencyName,omitempty"`
	NativeCurrencySymbol   string `json:"nativeCurrencySymbol,omitempty"`
	NativeCurrencyDecimals uint64 `json:"nativeCurrencyDecimals"`
	IsTest                 bool   `json:"isTest"`
	Layer                  uint64 `json:"layer"`
	Enabled                bool   `json:"enabled"`
}

// UpstreamRPCConfig stores configuration for the upstream node the provider
// proxies unregistered methods to.
type UpstreamRPCConfig struct {
	// Enabled flag specifies whether feature is enabled
	Enabled bool `json:"enabled"`

	// URL sets the upstream RPC endpoint, e.g. an Infura or self-hosted node
	URL string `json:"url"`
}

// NodeConfig stores walletd configuration options.
type NodeConfig struct {
	// DataDir is the file system directory the node stores its databases in.
	DataDir string `json:"dataDir" validate:"required"`

	// ListenAddr is the host:port the provider HTTP endpoint binds to.
	ListenAddr string `json:"listenAddr" validate:"required"`

	// KeyStoreKey encrypts the on-disk database.
	KeyStoreKey string `json:"keyStoreKey,omitempty"`

	// UpstreamConfig extends the node capabilities with proxying to an
	// upstream node when a method has no local command registered.
	UpstreamConfig UpstreamRPCConfig `json:"upstreamConfig"`

	// Networks seeds the chain registry on first start.
	Networks []Network `json:"networks"`
}

// NewNodeConfig returns a config populated with defaults for the given data
// directory.
func NewNodeConfig(dataDir string) *NodeConfig {
	return &NodeConfig{
		DataDir:    dataDir,
		ListenAddr: "127.0.0.1:8645",
		Networks:   DefaultNetworks(),
	}
}

// LoadNodeConfig parses config JSON and validates the result.
func LoadNodeConfig(configJSON string) (*NodeConfig, error) {
	config := &NodeConfig{}
	if err := json.Unmarshal([]byte(configJSON), config); err != nil {
		return nil, errors.Wrap(err, "failed to parse node config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadNodeConfigFromFile reads a config file from disk.
func LoadNodeConfigFromFile(path string) (*NodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read node config")
	}
	return LoadNodeConfig(string(data))
}

// Validate checks if NodeConfig fields have valid values.
//
// It returns nil if all fields are valid, otherwise returns an error
// describing the first constraint that failed.
func (c *NodeConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.UpstreamConfig.Enabled && c.UpstreamConfig.URL == "" {
		return fmt.Errorf("upstream RPC is enabled but URL is empty")
	}

	for i := range c.Networks {
		if err := validate.Struct(&c.Networks[i]); err != nil {
			return errors.Wrapf(err, "invalid network at index %d", i)
		}
	}

	return nil
}

// DefaultNetworks returns the networks a fresh node recognizes before any
// wallet_addEthereumChain call.
func DefaultNetworks() []Network {
	return []Network{
		{
			ChainID:                EthereumMainnet,
			ChainName:              "Ethereum Mainnet",
			RPCURL:                 "https://mainnet.infura.io/v3/",
			BlockExplorerURL:       "https://etherscan.io",
			NativeCurrencyName:     "Ether",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			Layer:                  1,
			Enabled:                true,
		},
		{
			ChainID:                OptimismMainnet,
			ChainName:              "OP Mainnet",
			RPCURL:                 "https://mainnet.optimism.io",
			BlockExplorerURL:       "https://optimistic.etherscan.io",
			NativeCurrencyName:     "Ether",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			Layer:                  2,
			Enabled:                true,
		},
		{
			ChainID:                ArbitrumMainnet,
			ChainName:              "Arbitrum One",
			RPCURL:                 "https://arb1.arbitrum.io/rpc",
			BlockExplorerURL:       "https://arbiscan.io",
			NativeCurrencyName:     "Ether",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			Layer:                  2,
			Enabled:                true,
		},
		{
			ChainID:                EthereumSepolia,
			ChainName:              "Sepolia",
			RPCURL:                 "https://sepolia.infura.io/v3/",
			BlockExplorerURL:       "https://sepolia.etherscan.io",
			NativeCurrencyName:     "Ether",
			NativeCurrencySymbol:   "ETH",
			NativeCurrencyDecimals: 18,
			IsTest:                 true,
			Layer:                  1,
			Enabled:                true,
		},
	}
}
