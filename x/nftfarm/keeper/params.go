package keeper

import (
	"context"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// GetParams returns the current nftfarm module parameters. Defaults are returned before genesis stores any.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	if err != nil {
		return types.Params{}, err
	}
	return params, nil
}

// SetParams sets the nftfarm module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.ValidateBasic(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}

// UpdateParams replaces the params. It is an owner operation behind the timelock.
func (k Keeper) UpdateParams(ctx context.Context, authority sdk.AccAddress, params types.Params) error {
	return k.execute(ctx, "update_params", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, authority, types.RoleOwner); err != nil {
			return err
		}
		if err := k.assertUnlocked(ctx, types.OperationUpdateParams); err != nil {
			return err
		}
		if err := k.SetParams(ctx, params); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute("operator", params.Operator),
		))
		return nil
	})
}
