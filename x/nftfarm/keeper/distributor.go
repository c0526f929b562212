package keeper

import (
	"context"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/coin98/baryon-farm/pkg/deterministicmap"
	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// fundEscrow pulls coins from the account into module custody and verifies the module received them in full.
func (k Keeper) fundEscrow(ctx context.Context, from sdk.AccAddress, coins sdk.Coins) error {
	if coins.IsZero() {
		return nil
	}

	moduleAddr := k.moduleAddress()
	before := make([]sdkmath.Int, len(coins))
	for i, coin := range coins {
		if balance := k.bankKeeper.GetBalance(ctx, from, coin.Denom); balance.Amount.LT(coin.Amount) {
			return errors.Wrapf(types.ErrInsufficientEscrow, "escrow requires %s, balance is %s", coin, balance)
		}
		before[i] = k.bankKeeper.GetBalance(ctx, moduleAddr, coin.Denom).Amount
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, coins); err != nil {
		return errors.Wrapf(types.ErrInsufficientEscrow, "failed to escrow %s: %s", coins, err)
	}

	for i, coin := range coins {
		received := k.bankKeeper.GetBalance(ctx, moduleAddr, coin.Denom).Amount.Sub(before[i])
		if received.LT(coin.Amount) {
			return errors.Wrapf(types.ErrInsufficientEscrow, "escrow of %s received only %s", coin, received)
		}
	}
	return nil
}

// payout transfers coins from custody to the recipient.
func (k Keeper) payout(ctx context.Context, recipient sdk.AccAddress, coins sdk.Coins) error {
	if coins.IsZero() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return errors.Wrapf(err, "failed to pay %s", coins)
	}
	for _, coin := range coins {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "payouts"},
			1,
			[]metrics.Label{telemetry.NewLabel("denom", coin.Denom)},
		)
	}
	return nil
}

// recordPayout books the pending rewards as paid and returns them as coins.
func (k Keeper) recordPayout(ctx context.Context, pool types.Pool, pending []sdkmath.Int) (sdk.Coins, error) {
	reward := make(sdk.Coins, 0, len(pending))
	for i, amount := range pending {
		if amount.IsZero() {
			continue
		}
		denom := pool.RewardTokens[i].Denom
		escrow, err := k.getRewardEscrow(ctx, pool.ID, denom)
		if err != nil {
			return nil, err
		}
		if escrow.Paid, err = types.SafeAdd(escrow.Paid, amount); err != nil {
			return nil, err
		}
		if _, err := escrow.Custody(); err != nil {
			return nil, errors.Wrapf(types.ErrInsufficientEscrow, "pool %d cannot pay %s%s", pool.ID, amount, denom)
		}
		if err := k.RewardEscrows.Set(ctx, collections.Join(pool.ID, denom), escrow); err != nil {
			return nil, err
		}
		reward = append(reward, sdk.NewCoin(denom, amount))
	}
	return sdk.NewCoins(reward...), nil
}

// poolSurplus returns the surplus of every reward token of an accrued pool.
func (k Keeper) poolSurplus(ctx context.Context, pool types.Pool) ([]sdkmath.Int, error) {
	surplus := make([]sdkmath.Int, len(pool.RewardTokens))
	for i, token := range pool.RewardTokens {
		escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
		if err != nil {
			return nil, err
		}
		future, err := k.futureEmission(pool, i)
		if err != nil {
			return nil, err
		}
		if surplus[i], err = escrow.Surplus(future); err != nil {
			return nil, err
		}
	}
	return surplus, nil
}

// recordSweep books amount of the i-th reward token as swept.
func (k Keeper) recordSweep(ctx context.Context, pool types.Pool, i int, amount sdkmath.Int) error {
	denom := pool.RewardTokens[i].Denom
	escrow, err := k.getRewardEscrow(ctx, pool.ID, denom)
	if err != nil {
		return err
	}
	if escrow.Swept, err = types.SafeAdd(escrow.Swept, amount); err != nil {
		return err
	}
	return k.RewardEscrows.Set(ctx, collections.Join(pool.ID, denom), escrow)
}

// Surplus returns the reward escrow of the pool which is neither accrued nor committed, projected to the block
// time.
func (k Keeper) Surplus(ctx context.Context, poolID uint64) (sdk.Coins, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	projected, emissions, err := accrualStep(pool, now(ctx))
	if err != nil {
		return nil, err
	}

	coins := make(sdk.Coins, 0, len(pool.RewardTokens))
	for i, token := range projected.RewardTokens {
		escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
		if err != nil {
			return nil, err
		}
		if escrow.Accrued, err = types.SafeAdd(escrow.Accrued, emissions[i]); err != nil {
			return nil, err
		}
		future, err := k.futureEmission(projected, i)
		if err != nil {
			return nil, err
		}
		surplus, err := escrow.Surplus(future)
		if err != nil {
			return nil, err
		}
		coins = append(coins, sdk.NewCoin(token.Denom, surplus))
	}
	return sdk.NewCoins(coins...), nil
}

// SweepPoolReward transfers the requested amounts of the pool surplus to the sender.
func (k Keeper) SweepPoolReward(
	ctx context.Context,
	sender sdk.AccAddress,
	poolID uint64,
	amount sdk.Coins,
) (sdk.Coins, error) {
	err := k.execute(ctx, "sweep_pool_reward", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, sender, types.RoleOperator); err != nil {
			return err
		}
		pool, err := k.accruedPool(ctx, poolID)
		if err != nil {
			return err
		}
		surplus, err := k.poolSurplus(ctx, pool)
		if err != nil {
			return err
		}

		for _, coin := range amount {
			i, found := pool.RewardIndex(coin.Denom)
			if !found {
				return errors.Wrapf(types.ErrInvalidInput, "%s is not a reward token of pool %d", coin.Denom, pool.ID)
			}
			if coin.Amount.GT(surplus[i]) {
				return errors.Wrapf(types.ErrInsufficientSurplus, "requested %s, surplus is %s%s",
					coin, surplus[i], coin.Denom)
			}
			if err := k.recordSweep(ctx, pool, i, coin.Amount); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeSurplusSwept,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		))
		return k.payout(ctx, sender, amount)
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

// SweepMultiplePools transfers the whole surplus of every listed pool to the authority in one transfer.
func (k Keeper) SweepMultiplePools(ctx context.Context, authority sdk.AccAddress, poolIDs []uint64) (sdk.Coins, error) {
	var swept sdk.Coins
	err := k.execute(ctx, "sweep_multiple_pools", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, authority, types.RoleOwner); err != nil {
			return err
		}
		if err := k.assertUnlocked(ctx, types.OperationSweepMultiplePools); err != nil {
			return err
		}
		if dup := lo.FindDuplicates(poolIDs); len(dup) > 0 {
			return errors.Wrapf(types.ErrInvalidInput, "duplicate pool ids %v", dup)
		}

		totals := deterministicmap.New[string, sdkmath.Int]()
		for _, poolID := range poolIDs {
			pool, err := k.accruedPool(ctx, poolID)
			if err != nil {
				return err
			}
			surplus, err := k.poolSurplus(ctx, pool)
			if err != nil {
				return err
			}
			for i, amount := range surplus {
				if amount.IsZero() {
					continue
				}
				if err := k.recordSweep(ctx, pool, i, amount); err != nil {
					return err
				}
				totals.Update(pool.RewardTokens[i].Denom, func(current sdkmath.Int, found bool) sdkmath.Int {
					if !found {
						return amount
					}
					return current.Add(amount)
				})
			}
		}

		totals.Range(func(denom string, amount sdkmath.Int) bool {
			swept = append(swept, sdk.NewCoin(denom, amount))
			return true
		})
		swept = sdk.NewCoins(swept...)

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeSurplusSwept,
			sdk.NewAttribute(types.AttributeKeyPoolID, strings.Join(lo.Map(poolIDs, func(id uint64, _ int) string {
				return strconv.FormatUint(id, 10)
			}), ",")),
			sdk.NewAttribute(types.AttributeKeyAmount, swept.String()),
		))
		return k.payout(ctx, authority, swept)
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}

// SweepUnallocated transfers the module balance of the denoms which is not reserved by any pool to the sender.
func (k Keeper) SweepUnallocated(ctx context.Context, sender sdk.AccAddress, denoms []string) (sdk.Coins, error) {
	var swept sdk.Coins
	err := k.execute(ctx, "sweep_unallocated", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, sender, types.RoleOperator); err != nil {
			return err
		}
		free, err := k.UnallocatedBalance(ctx, denoms)
		if err != nil {
			return err
		}
		swept = free

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeUnallocatedSwept,
			sdk.NewAttribute(types.AttributeKeyAmount, swept.String()),
		))
		return k.payout(ctx, sender, swept)
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}

// UnallocatedBalance returns the module balance of the denoms above what the pools reserve.
func (k Keeper) UnallocatedBalance(ctx context.Context, denoms []string) (sdk.Coins, error) {
	reserved, err := k.ReservedBalances(ctx)
	if err != nil {
		return nil, err
	}

	moduleAddr := k.moduleAddress()
	free := make(sdk.Coins, 0, len(denoms))
	for _, denom := range lo.Uniq(denoms) {
		balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom).Amount
		locked, found := reserved.Get(denom)
		if !found {
			locked = sdkmath.ZeroInt()
		}
		if balance.GT(locked) {
			free = append(free, sdk.NewCoin(denom, balance.Sub(locked)))
		}
	}
	return sdk.NewCoins(free...), nil
}

// ReservedBalances returns per denom the custody every pool still holds: reward escrow not yet paid or swept and
// the stake of native pools.
func (k Keeper) ReservedBalances(ctx context.Context) (*deterministicmap.Map[string, sdkmath.Int], error) {
	reserved := deterministicmap.New[string, sdkmath.Int]()
	add := func(denom string, amount sdkmath.Int) {
		reserved.Update(denom, func(current sdkmath.Int, found bool) sdkmath.Int {
			if !found {
				return amount
			}
			return current.Add(amount)
		})
	}

	iter, err := k.Pools.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		pool, err := iter.Value()
		if err != nil {
			return nil, err
		}
		for _, token := range pool.RewardTokens {
			escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
			if err != nil {
				return nil, err
			}
			custody, err := escrow.Custody()
			if err != nil {
				return nil, err
			}
			add(token.Denom, custody)
		}
		if pool.StakeKind.IsNative() {
			add(pool.StakeKind.Denom, pool.TotalShares)
		}
	}
	return reserved, nil
}
