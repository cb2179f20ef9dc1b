package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/signal"
)

func polygonParam() map[string]interface{} {
	return map[string]interface{}{
		"chainId":   "0x89",
		"chainName": "Polygon Mainnet",
		"rpcUrls":   []interface{}{"https://polygon-rpc.com"},
		"nativeCurrency": map[string]interface{}{
			"name":     "MATIC",
			"symbol":   "MATIC",
			"decimals": 18,
		},
		"blockExplorerUrls": []interface{}{"https://polygonscan.com"},
	}
}

func TestAddChainFailsWithMalformedParams(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	cmd := &AddChainCommand{Db: db, NetworkManager: testNetworkManager()}

	badParams := []map[string]interface{}{
		{},
		{"chainId": "137", "chainName": "Polygon", "rpcUrls": []interface{}{"https://polygon-rpc.com"}},
		{"chainId": "0x89", "rpcUrls": []interface{}{"https://polygon-rpc.com"}},
		{"chainId": "0x89", "chainName": "Polygon"},
		{"chainId": "0x89", "chainName": "Polygon", "rpcUrls": []interface{}{}},
	}

	for i, param := range badParams {
		request := ConstructRPCRequest("wallet_addEthereumChain", []interface{}{param}, &testDAppData)
		_, err := cmd.Execute(context.Background(), request)
		assert.Equal(t, ErrInvalidParams, err, "case %d", i)
	}
}

func TestAddChainSuccess(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	nm := testNetworkManager()
	cmd := &AddChainCommand{Db: db, NetworkManager: nm}

	chainAdded := false
	signal.SetHandler(func(data []byte) {
		var envelope struct {
			Type  string                  `json:"type"`
			Event signal.ChainAddedSignal `json:"event"`
		}
		require.NoError(t, json.Unmarshal(data, &envelope))

		if envelope.Type == signal.EventChainAdded {
			assert.Equal(t, "0x89", envelope.Event.ChainID)
			assert.Equal(t, "Polygon Mainnet", envelope.Event.ChainName)
			chainAdded = true
		}
	})
	t.Cleanup(signal.ResetHandler)

	request := ConstructRPCRequest("wallet_addEthereumChain", []interface{}{polygonParam()}, &testDAppData)
	result, err := cmd.Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.True(t, chainAdded)

	network := nm.Find(params.PolygonMainnet)
	require.NotNil(t, network)
	assert.Equal(t, "Polygon Mainnet", network.ChainName)
	assert.Equal(t, "https://polygon-rpc.com", network.RPCURL)
	assert.Equal(t, "MATIC", network.NativeCurrencySymbol)
	assert.Equal(t, uint64(18), network.NativeCurrencyDecimals)
	assert.True(t, network.Enabled)
}

func TestAddChainAlreadyKnownIsNoop(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	nm := testNetworkManager()
	cmd := &AddChainCommand{Db: db, NetworkManager: nm}

	signalled := false
	signal.SetHandler(func(data []byte) { signalled = true })
	t.Cleanup(signal.ResetHandler)

	param := polygonParam()
	param["chainId"] = "0x1" // mainnet is preconfigured

	request := ConstructRPCRequest("wallet_addEthereumChain", []interface{}{param}, &testDAppData)
	result, err := cmd.Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.False(t, signalled)

	// The preconfigured network must not be overwritten.
	assert.Equal(t, "Ethereum Mainnet", nm.Find(params.EthereumMainnet).ChainName)
}
