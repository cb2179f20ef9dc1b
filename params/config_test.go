package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeConfigDefaults(t *testing.T) {
	config := NewNodeConfig("/tmp/walletd")
	require.NoError(t, config.Validate())
	assert.Equal(t, "127.0.0.1:8645", config.ListenAddr)
	assert.NotEmpty(t, config.Networks)
}

func TestValidateMissingDataDir(t *testing.T) {
	config := NewNodeConfig("")
	assert.Error(t, config.Validate())
}

func TestValidateUpstreamEnabledWithoutURL(t *testing.T) {
	config := NewNodeConfig("/tmp/walletd")
	config.UpstreamConfig.Enabled = true
	assert.Error(t, config.Validate())

	config.UpstreamConfig.URL = "https://mainnet.infura.io/v3/abc"
	assert.NoError(t, config.Validate())
}

func TestValidateBadNetwork(t *testing.T) {
	config := NewNodeConfig("/tmp/walletd")
	config.Networks = append(config.Networks, Network{ChainID: 42, ChainName: "NoURL"})
	assert.Error(t, config.Validate())
}

func TestLoadNodeConfig(t *testing.T) {
	config, err := LoadNodeConfig(`{
		"dataDir": "/tmp/walletd",
		"listenAddr": "0.0.0.0:8645",
		"upstreamConfig": {"enabled": true, "url": "https://mainnet.infura.io/v3/abc"}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8645", config.ListenAddr)
	assert.True(t, config.UpstreamConfig.Enabled)
}

func TestLoadNodeConfigInvalidJSON(t *testing.T) {
	_, err := LoadNodeConfig(`{not json`)
	assert.Error(t, err)
}

func TestDefaultNetworksAreValid(t *testing.T) {
	for _, network := range DefaultNetworks() {
		assert.NotZero(t, network.ChainID)
		assert.NotEmpty(t, network.ChainName)
		assert.NotEmpty(t, network.RPCURL)
		assert.True(t, network.Enabled)
	}
}
