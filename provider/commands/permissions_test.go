package commands

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappbridge/walletd/params"
	persistence "github.com/dappbridge/walletd/provider/database"
	"github.com/dappbridge/walletd/signal"
)

func TestGetPermissionsEmptyForUnconnectedDApp(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	cmd := &GetPermissionsCommand{Db: db}

	request := ConstructRPCRequest("wallet_getPermissions", []interface{}{}, &testDAppData)
	result, err := cmd.Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, []Permission{}, result)
}

func TestGetPermissionsForConnectedDApp(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	account := common.HexToAddress("0x6d0aa2a774b74bb1d36f97700315adf962c69fc2")
	PersistDAppData(t, db, testDAppData, account, params.EthereumMainnet)

	cmd := &GetPermissionsCommand{Db: db}

	request := ConstructRPCRequest("wallet_getPermissions", []interface{}{}, &testDAppData)
	result, err := cmd.Execute(context.Background(), request)
	require.NoError(t, err)

	permissions, ok := result.([]Permission)
	require.True(t, ok)
	require.Len(t, permissions, 1)
	assert.Equal(t, "eth_accounts", permissions[0].ParentCapability)
}

func TestRevokePermissionsDeletesSession(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	account := common.HexToAddress("0x6d0aa2a774b74bb1d36f97700315adf962c69fc2")
	PersistDAppData(t, db, testDAppData, account, params.EthereumMainnet)

	revoked := false
	signal.SetHandler(func(data []byte) { revoked = true })
	t.Cleanup(signal.ResetHandler)

	cmd := &RevokePermissionsCommand{Db: db}

	request := ConstructRPCRequest("wallet_revokePermissions", []interface{}{}, &testDAppData)
	result, err := cmd.Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.True(t, revoked)

	session, err := persistence.SelectDAppSessionByOrigin(db, testDAppData.Origin)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestRevokePermissionsForUnconnectedDApp(t *testing.T) {
	db, close := SetupTestDB(t)
	defer close()

	cmd := &RevokePermissionsCommand{Db: db}

	request := ConstructRPCRequest("wallet_revokePermissions", []interface{}{}, &testDAppData)
	_, err := cmd.Execute(context.Background(), request)
	assert.Equal(t, ErrNotConnected, err)
}
