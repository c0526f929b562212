package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// authorize checks that the caller holds the role. The owner satisfies every role.
func (k Keeper) authorize(ctx context.Context, caller sdk.AccAddress, role types.Role) error {
	callerStr, err := k.addressCodec.BytesToString(caller)
	if err != nil {
		return errors.Wrapf(types.ErrUnauthorized, "invalid caller address: %s", err)
	}
	if callerStr == k.authority {
		return nil
	}

	if role == types.RoleOperator {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if params.Operator != "" && params.Operator == callerStr {
			return nil
		}
	}

	return errors.Wrapf(types.ErrUnauthorized, "%s is not the %s", callerStr, role)
}
