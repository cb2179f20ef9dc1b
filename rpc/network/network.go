package network

import (
	"database/sql"

	"github.com/dappbridge/walletd/params"
)

const networkColumns = "chain_id, chain_name, rpc_url, block_explorer_url, icon_url, native_currency_name, native_currency_symbol, native_currency_decimals, is_test, layer, enabled"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNetwork(s scanner) (*params.Network, error) {
	var network params.Network
	err := s.Scan(
		&network.ChainID, &network.ChainName, &network.RPCURL, &network.BlockExplorerURL, &network.IconURL,
		&network.NativeCurrencyName, &network.NativeCurrencySymbol, &network.NativeCurrencyDecimals,
		&network.IsTest, &network.Layer, &network.Enabled,
	)
	if err != nil {
		return nil, err
	}
	return &network, nil
}

// Manager is the chain registry. wallet_addEthereumChain lands here, and
// wallet_switchEthereumChain consults it before accepting a chain.
type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{
		db: db,
	}
}

// Init seeds the registry with the given networks unless it already holds
// any rows.
func (nm *Manager) Init(networks []params.Network) error {
	var count int
	if err := nm.db.QueryRow("SELECT COUNT(1) FROM networks").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range networks {
		if err := nm.Upsert(&networks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (nm *Manager) Upsert(network *params.Network) error {
	_, err := nm.db.Exec(
		"INSERT OR REPLACE INTO networks ("+networkColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		network.ChainID, network.ChainName, network.RPCURL, network.BlockExplorerURL, network.IconURL,
		network.NativeCurrencyName, network.NativeCurrencySymbol, network.NativeCurrencyDecimals,
		network.IsTest, network.Layer, network.Enabled,
	)
	return err
}

// Find returns the network with the given chain ID, or nil when the chain is
// not recognized.
func (nm *Manager) Find(chainID uint64) *params.Network {
	row := nm.db.QueryRow("SELECT "+networkColumns+" FROM networks WHERE chain_id = ?", chainID)
	network, err := scanNetwork(row)
	if err != nil {
		return nil
	}
	return network
}

func (nm *Manager) Get(onlyEnabled bool) ([]*params.Network, error) {
	query := "SELECT " + networkColumns + " FROM networks"
	if onlyEnabled {
		query += " WHERE enabled = 1"
	}

	rows, err := nm.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var networks []*params.Network
	for rows.Next() {
		network, err := scanNetwork(rows)
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}
	return networks, rows.Err()
}

// GetActiveNetworks returns the enabled networks a dApp may switch to.
func (nm *Manager) GetActiveNetworks() ([]*params.Network, error) {
	return nm.Get(true)
}
