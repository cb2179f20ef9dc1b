package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dappbridge/walletd/client"
	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/provider"
	"github.com/dappbridge/walletd/provider/commands"
	"github.com/dappbridge/walletd/rpc/network"
	"github.com/dappbridge/walletd/signal"
	"github.com/dappbridge/walletd/sqlite"
)

const testOrigin = "https://app.example.org"

// setupEndpoint wires a real provider API behind the daemon's HTTP handler,
// with a granted session for testOrigin.
func setupEndpoint(t *testing.T) *httptest.Server {
	db, err := sqlite.OpenInMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	nm := network.NewManager(db)
	require.NoError(t, nm.Init(params.DefaultNetworks()))

	service := provider.NewService(db, nil, nm, nil)
	api := provider.NewAPI(service)
	t.Cleanup(api.Stop)

	account := common.HexToAddress("0x6d0aa2a774b74bb1d36f97700315adf962c69fc2")
	dApp := signal.DApp{Origin: testOrigin, Name: "Example"}
	commands.PersistDAppData(t, db, dApp, account, params.EthereumMainnet)

	server := httptest.NewServer(handleRPC(api, zap.NewNop()))
	t.Cleanup(server.Close)
	return server
}

func TestClientSwitchChainThroughDaemon(t *testing.T) {
	server := setupEndpoint(t)
	walletClient := client.New(server.URL, client.WithOrigin(testOrigin), client.WithMaxRetryTime(0))

	require.NoError(t, walletClient.SwitchChain(context.Background(), "0xa"))

	chainID, err := walletClient.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, params.OptimismMainnet, chainID)
}

func TestClientEnsureChainThroughDaemon(t *testing.T) {
	server := setupEndpoint(t)
	walletClient := client.New(server.URL, client.WithOrigin(testOrigin), client.WithMaxRetryTime(0))

	// Polygon is not configured on a fresh wallet, so the full remediation
	// flow runs: switch fails with 4902, add, switch again.
	err := walletClient.SwitchChain(context.Background(), "0x89")
	require.Error(t, err)
	assert.True(t, client.IsUnrecognizedChain(err))

	require.NoError(t, walletClient.EnsureChain(context.Background(), client.AddChainParams{
		ChainID:   "0x89",
		ChainName: "Polygon Mainnet",
		RPCURLs:   []string{"https://polygon-rpc.com"},
		NativeCurrency: &client.NativeCurrency{
			Name:     "MATIC",
			Symbol:   "MATIC",
			Decimals: 18,
		},
	}))

	chainID, err := walletClient.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, params.PolygonMainnet, chainID)
}

// originRoundTripper attaches the Origin header the way a browser would.
type originRoundTripper struct {
	origin string
}

func (rt originRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	r.Header.Set("Origin", rt.origin)
	return http.DefaultTransport.RoundTrip(r)
}

func TestBrowserOriginHeaderIdentifiesDApp(t *testing.T) {
	server := setupEndpoint(t)

	// No WithOrigin: the request body carries no origin, only the header.
	walletClient := client.New(server.URL,
		client.WithHTTPClient(&http.Client{Transport: originRoundTripper{origin: testOrigin}}),
		client.WithMaxRetryTime(0))

	require.NoError(t, walletClient.SwitchChain(context.Background(), "0xa"))
}

func TestAttachOrigin(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"eth_chainId","params":[]}`)

	patched := attachOrigin(body, testOrigin)
	assert.Contains(t, string(patched), `"origin":"https://app.example.org"`)

	// A body that already identifies the dApp wins over the header.
	withOrigin := []byte(`{"jsonrpc":"2.0","id":1,"method":"eth_chainId","params":[],"origin":"https://other.example.org"}`)
	assert.Equal(t, withOrigin, attachOrigin(withOrigin, testOrigin))

	// No header, nothing to attach.
	assert.Equal(t, body, attachOrigin(body, ""))
}
