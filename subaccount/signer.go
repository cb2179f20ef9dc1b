// Package subaccount composes an externally supplied signer, a derived
// sub-address and a wallet provider transport into a client scoped to that
// sub-account.
package subaccount

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer is a key handle able to sign a 32-byte digest. Implementations may
// be local ECDSA keys or hardware/WebAuthn-backed handles.
type Signer interface {
	Address() common.Address
	SignHash(hash common.Hash) ([]byte, error)
}

// ECDSASigner signs with a local secp256k1 key.
type ECDSASigner struct {
	key *ecdsa.PrivateKey
}

// NewECDSASigner builds a signer from a hex-encoded private key, with or
// without the 0x prefix.
func NewECDSASigner(hexKey string) (*ECDSASigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, err
	}
	return &ECDSASigner{key: key}, nil
}

func (s *ECDSASigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SignHash signs the digest and adjusts v to the conventional 27/28 values
// smart-account validation expects.
func (s *ECDSASigner) SignHash(hash common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(hash[:], s.key)
	if err != nil {
		return nil, err
	}

	// crypto.Sign returns v as a 0/1 recovery id.
	sig[64] += 27

	return sig, nil
}
