package persistence

import (
	"database/sql"

	"github.com/ethereum/go-ethereum/common"
)

const upsertSessionQuery = "INSERT INTO dapp_sessions (origin, name, icon_url, shared_account, chain_id) VALUES (?, ?, ?, ?, ?) ON CONFLICT(origin) DO UPDATE SET name = excluded.name, icon_url = excluded.icon_url, shared_account = excluded.shared_account, chain_id = excluded.chain_id"
const selectSessionByOriginQuery = "SELECT name, icon_url, shared_account, chain_id FROM dapp_sessions WHERE origin = ?"
const deleteSessionQuery = "DELETE FROM dapp_sessions WHERE origin = ?"

// DAppSession is a granted connection between a dApp origin and the wallet:
// which account was shared and which chain is currently active for that dApp.
type DAppSession struct {
	Origin        string         `json:"origin"`
	Name          string         `json:"name"`
	IconURL       string         `json:"iconUrl"`
	SharedAccount common.Address `json:"sharedAccount"`
	ChainID       uint64         `json:"chainId"`
}

func UpsertDAppSession(db *sql.DB, session *DAppSession) error {
	_, err := db.Exec(upsertSessionQuery, session.Origin, session.Name, session.IconURL, session.SharedAccount.Hex(), session.ChainID)
	return err
}

// SelectDAppSessionByOrigin returns the session for the given origin, or nil
// when the dApp never connected.
func SelectDAppSessionByOrigin(db *sql.DB, origin string) (*DAppSession, error) {
	session := &DAppSession{
		Origin: origin,
	}
	var sharedAccount string
	err := db.QueryRow(selectSessionByOriginQuery, origin).Scan(&session.Name, &session.IconURL, &sharedAccount, &session.ChainID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session.SharedAccount = common.HexToAddress(sharedAccount)
	return session, nil
}

func DeleteDAppSession(db *sql.DB, origin string) error {
	_, err := db.Exec(deleteSessionQuery, origin)
	return err
}
