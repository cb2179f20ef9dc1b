package sqlite

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	_ "github.com/mutecomm/go-sqlcipher/v4" // We require go sqlcipher that overrides default implementation
)

// The reduced number of kdf iterations (for performance reasons) used for
// derivation of the database key.
const kdfIterationsNumber = 3200

const schema = `
CREATE TABLE IF NOT EXISTS networks (
	chain_id UNSIGNED BIGINT PRIMARY KEY,
	chain_name VARCHAR NOT NULL,
	rpc_url VARCHAR NOT NULL,
	block_explorer_url VARCHAR NOT NULL DEFAULT "",
	icon_url VARCHAR NOT NULL DEFAULT "",
	native_currency_name VARCHAR NOT NULL DEFAULT "",
	native_currency_symbol VARCHAR NOT NULL DEFAULT "",
	native_currency_decimals UNSIGNED INT NOT NULL DEFAULT 0,
	is_test BOOLEAN NOT NULL DEFAULT FALSE,
	layer UNSIGNED INT NOT NULL DEFAULT 1,
	enabled BOOLEAN NOT NULL DEFAULT TRUE
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS dapp_sessions (
	origin VARCHAR PRIMARY KEY,
	name VARCHAR NOT NULL DEFAULT "",
	icon_url VARCHAR NOT NULL DEFAULT "",
	shared_account VARCHAR NOT NULL,
	chain_id UNSIGNED BIGINT NOT NULL
) WITHOUT ROWID;
`

// keyFromPassword stretches a password into a hex key accepted by the
// PRAGMA key statement.
func keyFromPassword(password string) string {
	hash := sha3.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// OpenDB opens an encrypted database at path and applies the bootstrap
// schema. An empty key opens the database in plaintext mode.
func OpenDB(path, key string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Disable concurrent access as not supported by the driver
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}

	if key != "" {
		keyString := fmt.Sprintf("PRAGMA key = \"x'%s'\"", keyFromPassword(key))
		if _, err = db.Exec(keyString); err != nil {
			return nil, errors.New("failed to set key pragma")
		}
		if _, err = db.Exec(fmt.Sprintf("PRAGMA kdf_iter = '%d'", kdfIterationsNumber)); err != nil {
			return nil, err
		}
	}

	// readers do not block writers and faster i/o operations
	// must be set after db is encrypted
	var mode string
	if err = db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		return nil, err
	}

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

// OpenInMemoryDB opens a fresh in-memory database with the bootstrap schema
// applied. Used by tests.
func OpenInMemoryDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}
