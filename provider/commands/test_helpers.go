package commands

import (
	"database/sql"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/dappbridge/walletd/params"
	persistence "github.com/dappbridge/walletd/provider/database"
	"github.com/dappbridge/walletd/signal"
	"github.com/dappbridge/walletd/sqlite"
)

var testDAppData = signal.DApp{
	Origin:  "http://testDAppOrigin",
	Name:    "testDAppName",
	IconURL: "http://testDAppIconUrl",
}

// SetupTestDB opens a fresh in-memory database with the provider schema.
func SetupTestDB(t *testing.T) (db *sql.DB, close func()) {
	db, err := sqlite.OpenInMemoryDB()
	require.NoError(t, err)
	return db, func() {
		require.NoError(t, db.Close())
	}
}

// ConstructRPCRequest builds a request the way the embedding surface would,
// optionally attaching dApp identification.
func ConstructRPCRequest(method string, requestParams []interface{}, dApp *signal.DApp) RPCRequest {
	request := RPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  requestParams,
	}
	if dApp != nil {
		request.Origin = dApp.Origin
		request.DAppName = dApp.Name
		request.DAppIconURL = dApp.IconURL
	}
	return request
}

// PersistDAppData stores a granted session for the given dApp.
func PersistDAppData(t *testing.T, db *sql.DB, dApp signal.DApp, sharedAccount common.Address, chainID uint64) {
	session := &persistence.DAppSession{
		Origin:        dApp.Origin,
		Name:          dApp.Name,
		IconURL:       dApp.IconURL,
		SharedAccount: sharedAccount,
		ChainID:       chainID,
	}
	require.NoError(t, persistence.UpsertDAppSession(db, session))
}

// NetworkManagerMock implements NetworkManagerInterface in memory.
type NetworkManagerMock struct {
	networks []*params.Network
}

func (m *NetworkManagerMock) SetNetworks(networks []*params.Network) {
	m.networks = networks
}

func (m *NetworkManagerMock) GetActiveNetworks() ([]*params.Network, error) {
	return m.networks, nil
}

func (m *NetworkManagerMock) Find(chainID uint64) *params.Network {
	for _, network := range m.networks {
		if network.ChainID == chainID {
			return network
		}
	}
	return nil
}

func (m *NetworkManagerMock) Upsert(network *params.Network) error {
	if existing := m.Find(network.ChainID); existing != nil {
		*existing = *network
		return nil
	}
	m.networks = append(m.networks, network)
	return nil
}

// RPCClientMock returns canned raw responses keyed by nothing in particular;
// the provider API only needs CallRaw to echo something recognizable.
type RPCClientMock struct {
	Response string
	LastBody string
}

func (m *RPCClientMock) CallRaw(body string) string {
	m.LastBody = body
	return m.Response
}
