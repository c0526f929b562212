package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params are the nftfarm module parameters.
type Params struct {
	// Operator may create pools and sweep funds. Empty means only the owner acts as operator.
	Operator string `json:"operator"`
}

// DefaultParams returns default nftfarm parameters.
func DefaultParams() Params {
	return Params{
		Operator: "",
	}
}

// ValidateBasic performs basic validation on nftfarm parameters.
func (p Params) ValidateBasic() error {
	if p.Operator == "" {
		return nil
	}
	if _, err := sdk.AccAddressFromBech32(p.Operator); err != nil {
		return errorsmod.Wrapf(ErrInvalidParam, "invalid operator address %s: %s", p.Operator, err)
	}
	return nil
}
