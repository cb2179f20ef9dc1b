package subaccount

import (
	"context"
	"encoding/json"

	"github.com/dappbridge/walletd/client"
	"github.com/dappbridge/walletd/provider/chainutils"
)

// Sponsor names the party paying for gas.
type Sponsor struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// PaymasterStubData is the pm_getPaymasterStubData result.
type PaymasterStubData struct {
	Sponsor                       *Sponsor `json:"sponsor,omitempty"`
	Paymaster                     string   `json:"paymaster,omitempty"`
	PaymasterData                 string   `json:"paymasterData,omitempty"`
	PaymasterVerificationGasLimit string   `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       string   `json:"paymasterPostOpGasLimit,omitempty"`
	IsFinal                       bool     `json:"isFinal,omitempty"`
}

// GetPaymasterStubData asks an ERC-7677 paymaster service whether it will
// sponsor the batch. The transport is any Provider pointed at the paymaster
// endpoint.
func GetPaymasterStubData(ctx context.Context, paymaster client.Provider, chainID uint64, calls []Call) (*PaymasterStubData, error) {
	result, err := paymaster.Request(ctx, "pm_getPaymasterStubData",
		calls, chainutils.HexChainID(chainID), map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	var stub PaymasterStubData
	if err := json.Unmarshal(result, &stub); err != nil {
		return nil, err
	}
	return &stub, nil
}
