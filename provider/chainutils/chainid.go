package chainutils

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyChainID     = errors.New("empty chain id")
	ErrMalformedChainID = errors.New("chain id is not a 0x-prefixed hex string")
)

// HexChainID formats a numeric chain ID the way the provider surface expects
// it, e.g. 1 -> "0x1".
func HexChainID(chainID uint64) string {
	return "0x" + strconv.FormatUint(chainID, 16)
}

// ParseHexChainID parses a 0x-prefixed hexadecimal chain ID string. A missing
// prefix, an empty digit string or non-hex digits are all malformed.
func ParseHexChainID(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyChainID
	}
	if !strings.HasPrefix(s, "0x") || len(s) == 2 {
		return 0, ErrMalformedChainID
	}
	value, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, ErrMalformedChainID
	}
	return value, nil
}
