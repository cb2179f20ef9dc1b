package network

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/sqlite"
)

func setupTestDB(t *testing.T) (db *sql.DB, close func()) {
	db, err := sqlite.OpenInMemoryDB()
	require.NoError(t, err)
	return db, func() {
		require.NoError(t, db.Close())
	}
}

func TestInitSeedsOnlyOnce(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	nm := NewManager(db)
	require.NoError(t, nm.Init(params.DefaultNetworks()))

	networks, err := nm.Get(false)
	require.NoError(t, err)
	assert.Len(t, networks, len(params.DefaultNetworks()))

	// A second Init must not duplicate or overwrite rows.
	require.NoError(t, nm.Init([]params.Network{{ChainID: 555, ChainName: "Bogus", RPCURL: "http://localhost"}}))
	networks, err = nm.Get(false)
	require.NoError(t, err)
	assert.Len(t, networks, len(params.DefaultNetworks()))
}

func TestUpsertAndFind(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	nm := NewManager(db)
	require.NoError(t, nm.Upsert(&params.Network{
		ChainID:   params.PolygonMainnet,
		ChainName: "Polygon",
		RPCURL:    "https://polygon-rpc.com",
		Enabled:   true,
	}))

	found := nm.Find(params.PolygonMainnet)
	require.NotNil(t, found)
	assert.Equal(t, "Polygon", found.ChainName)

	assert.Nil(t, nm.Find(123456))
}

func TestGetActiveNetworksSkipsDisabled(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	nm := NewManager(db)
	require.NoError(t, nm.Upsert(&params.Network{ChainID: 1, ChainName: "Mainnet", RPCURL: "https://rpc", Enabled: true}))
	require.NoError(t, nm.Upsert(&params.Network{ChainID: 10, ChainName: "OP", RPCURL: "https://rpc", Enabled: false}))

	active, err := nm.GetActiveNetworks()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, uint64(1), active[0].ChainID)
}

func TestUpsertOverwrites(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	nm := NewManager(db)
	require.NoError(t, nm.Upsert(&params.Network{ChainID: 1, ChainName: "Mainnet", RPCURL: "https://rpc", Enabled: true}))
	require.NoError(t, nm.Upsert(&params.Network{ChainID: 1, ChainName: "Renamed", RPCURL: "https://other-rpc", Enabled: true}))

	found := nm.Find(1)
	require.NotNil(t, found)
	assert.Equal(t, "Renamed", found.ChainName)
	assert.Equal(t, "https://other-rpc", found.RPCURL)
}
