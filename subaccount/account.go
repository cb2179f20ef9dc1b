package subaccount

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveAddress computes the deterministic sub-account address for an owner
// and index. The same owner/index pair always yields the same address, so
// clients on different devices agree on the sub-address without coordination.
func DeriveAddress(owner common.Address, index uint64) common.Address {
	var indexBytes [8]byte
	binary.BigEndian.PutUint64(indexBytes[:], index)

	hash := crypto.Keccak256(owner.Bytes(), indexBytes[:])
	return common.BytesToAddress(hash[12:])
}
