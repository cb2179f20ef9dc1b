package persistence

import (
	"database/sql"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappbridge/walletd/sqlite"
)

func setupTestDB(t *testing.T) (db *sql.DB, close func()) {
	db, err := sqlite.OpenInMemoryDB()
	require.NoError(t, err)
	return db, func() {
		require.NoError(t, db.Close())
	}
}

func TestSelectMissingSessionReturnsNil(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	session, err := SelectDAppSessionByOrigin(db, "https://unknown.example.org")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestUpsertRoundTrip(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	session := &DAppSession{
		Origin:        "https://app.example.org",
		Name:          "Example",
		IconURL:       "https://app.example.org/icon.png",
		SharedAccount: common.HexToAddress("0x6d0aa2a774b74bb1d36f97700315adf962c69fc2"),
		ChainID:       1,
	}
	require.NoError(t, UpsertDAppSession(db, session))

	got, err := SelectDAppSessionByOrigin(db, session.Origin)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session, got)

	// Upsert on the same origin overwrites
	session.ChainID = 10
	require.NoError(t, UpsertDAppSession(db, session))

	got, err = SelectDAppSessionByOrigin(db, session.Origin)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.ChainID)
}

func TestDeleteSession(t *testing.T) {
	db, close := setupTestDB(t)
	defer close()

	session := &DAppSession{
		Origin:        "https://app.example.org",
		SharedAccount: common.HexToAddress("0x6d0aa2a774b74bb1d36f97700315adf962c69fc2"),
		ChainID:       1,
	}
	require.NoError(t, UpsertDAppSession(db, session))
	require.NoError(t, DeleteDAppSession(db, session.Origin))

	got, err := SelectDAppSessionByOrigin(db, session.Origin)
	require.NoError(t, err)
	assert.Nil(t, got)
}
