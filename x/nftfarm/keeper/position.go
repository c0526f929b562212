package keeper

import (
	"context"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// Deposit stakes nft items, or an amount of the stake denom for native pools, into the pool. The pending reward
// of the existing stake is paid first.
func (k Keeper) Deposit(
	ctx context.Context,
	sender sdk.AccAddress,
	poolID uint64,
	itemIDs []string,
	amount sdkmath.Int,
) (sdk.Coins, error) {
	var reward sdk.Coins
	err := k.execute(ctx, "deposit", func(ctx sdk.Context) error {
		pool, err := k.accruedPool(ctx, poolID)
		if err != nil {
			return err
		}

		added, err := k.validateDeposit(ctx, pool, sender, itemIDs, amount)
		if err != nil {
			return err
		}

		position, err := k.GetPosition(ctx, poolID, sender)
		if err != nil {
			return err
		}
		if reward, err = k.settle(ctx, pool, position); err != nil {
			return err
		}

		if position.Shares, err = types.SafeAdd(position.Shares, added); err != nil {
			return err
		}
		if pool.TotalShares, err = types.SafeAdd(pool.TotalShares, added); err != nil {
			return err
		}
		if err := k.savePosition(ctx, pool, sender, position); err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := k.addItem(ctx, pool, sender, itemID); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeDeposited,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, sender.String()),
			sdk.NewAttribute(types.AttributeKeyItems, strings.Join(itemIDs, ",")),
			sdk.NewAttribute(types.AttributeKeyShares, added.String()),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		))

		// External transfers run after every state update.
		if err := k.pullStake(ctx, pool, sender, itemIDs, added); err != nil {
			return err
		}
		return k.payout(ctx, sender, reward)
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Withdraw unstakes nft items, or an amount for native pools, and pays the pending reward. Either every item is
// returned or none.
func (k Keeper) Withdraw(
	ctx context.Context,
	sender sdk.AccAddress,
	poolID uint64,
	itemIDs []string,
	amount sdkmath.Int,
) (sdk.Coins, error) {
	var reward sdk.Coins
	err := k.execute(ctx, "withdraw", func(ctx sdk.Context) error {
		pool, err := k.accruedPool(ctx, poolID)
		if err != nil {
			return err
		}
		position, err := k.GetPosition(ctx, poolID, sender)
		if err != nil {
			return err
		}

		removed, err := k.validateWithdraw(ctx, pool, sender, position, itemIDs, amount)
		if err != nil {
			return err
		}

		if reward, err = k.settle(ctx, pool, position); err != nil {
			return err
		}
		if position.Shares, err = types.SafeSub(position.Shares, removed); err != nil {
			return err
		}
		if pool.TotalShares, err = types.SafeSub(pool.TotalShares, removed); err != nil {
			return err
		}
		if err := k.savePosition(ctx, pool, sender, position); err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := k.removeItem(ctx, pool, sender, itemID); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeWithdrawn,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, sender.String()),
			sdk.NewAttribute(types.AttributeKeyItems, strings.Join(itemIDs, ",")),
			sdk.NewAttribute(types.AttributeKeyShares, removed.String()),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		))

		if err := k.returnStake(ctx, pool, sender, itemIDs, removed); err != nil {
			return err
		}
		return k.payout(ctx, sender, reward)
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Harvest pays the pending reward of the sender without changing the stake.
func (k Keeper) Harvest(ctx context.Context, sender sdk.AccAddress, poolID uint64) (sdk.Coins, error) {
	var reward sdk.Coins
	err := k.execute(ctx, "harvest", func(ctx sdk.Context) error {
		pool, err := k.accruedPool(ctx, poolID)
		if err != nil {
			return err
		}
		position, err := k.GetPosition(ctx, poolID, sender)
		if err != nil {
			return err
		}
		if reward, err = k.settle(ctx, pool, position); err != nil {
			return err
		}
		if err := k.savePosition(ctx, pool, sender, position); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeHarvested,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, sender.String()),
			sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
		))
		return k.payout(ctx, sender, reward)
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// EmergencyWithdraw returns the whole stake of the sender without paying reward. The pending reward is forfeited
// and becomes pool surplus. Reward bookkeeping failures never block the return of the stake: a pool whose
// accumulator cannot advance is settled at its last accrual and an unpayable forfeit is clamped.
func (k Keeper) EmergencyWithdraw(ctx context.Context, sender sdk.AccAddress, poolID uint64) error {
	return k.execute(ctx, "emergency_withdraw", func(ctx sdk.Context) error {
		pool, err := k.accruedPool(ctx, poolID)
		if errors.Is(err, types.ErrArithmeticOverflow) {
			k.Logger(ctx).Error("emergency withdraw without accrual", "pool_id", poolID, "error", err)
			pool, err = k.GetPool(ctx, poolID)
		}
		if err != nil {
			return err
		}
		position, err := k.GetPosition(ctx, poolID, sender)
		if err != nil {
			return err
		}

		forfeited := make(sdk.Coins, 0, len(pool.RewardTokens))
		for i, token := range pool.RewardTokens {
			escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
			if err != nil {
				return err
			}
			pending := forfeit(pool, position, i, escrow.Accrued)
			if pending.IsZero() {
				continue
			}
			escrow.Accrued = escrow.Accrued.Sub(pending)
			if err := k.RewardEscrows.Set(ctx, collections.Join(pool.ID, token.Denom), escrow); err != nil {
				return err
			}
			forfeited = append(forfeited, sdk.NewCoin(token.Denom, pending))
		}

		itemIDs, err := k.GetStakedItems(ctx, poolID, sender)
		if err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := k.removeItem(ctx, pool, sender, itemID); err != nil {
				return err
			}
		}

		shares := position.Shares
		pool.TotalShares = sdkmath.MaxInt(pool.TotalShares.Sub(shares), sdkmath.ZeroInt())
		if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
			return err
		}
		emptied := types.NewPosition(len(pool.RewardTokens))
		if err := k.Positions.Set(ctx, collections.Join(pool.ID, sender), emptied); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeEmergencyWithdrawn,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, sender.String()),
			sdk.NewAttribute(types.AttributeKeyItems, strings.Join(itemIDs, ",")),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyForfeited, sdk.NewCoins(forfeited...).String()),
		))
		k.Logger(ctx).Info("emergency withdraw", "pool_id", pool.ID, "user", sender.String(),
			"forfeited", sdk.NewCoins(forfeited...).String())

		return k.returnStake(ctx, pool, sender, itemIDs, shares)
	})
}

// forfeit returns the pending reward of token i released back to the escrow, at most accrued. It is zero when
// the pending reward cannot be computed.
func forfeit(pool types.Pool, position types.Position, i int, accrued sdkmath.Int) sdkmath.Int {
	if i >= len(pool.AccRewardPerShare) || i >= len(position.RewardDebt) {
		return sdkmath.ZeroInt()
	}
	pending, err := types.PendingReward(pool.AccRewardPerShare[i], position.Shares, position.RewardDebt[i])
	if err != nil {
		return sdkmath.ZeroInt()
	}
	return sdkmath.MinInt(pending, accrued)
}

// GetPosition returns the position of the owner, an empty one when the owner has never staked.
func (k Keeper) GetPosition(ctx context.Context, poolID uint64, owner sdk.AccAddress) (types.Position, error) {
	position, err := k.Positions.Get(ctx, collections.Join(poolID, owner))
	if errors.Is(err, collections.ErrNotFound) {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return types.Position{}, err
		}
		return types.NewPosition(len(pool.RewardTokens)), nil
	}
	if err != nil {
		return types.Position{}, err
	}
	return position, nil
}

// GetStakedItems returns the ids of the items staked by the owner in the pool, sorted.
func (k Keeper) GetStakedItems(ctx context.Context, poolID uint64, owner sdk.AccAddress) ([]string, error) {
	iter, err := k.PositionItems.Iterate(
		ctx,
		collections.NewSuperPrefixedTripleRange[uint64, sdk.AccAddress, string](poolID, owner),
	)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	keys, err := iter.Keys()
	if err != nil {
		return nil, err
	}
	return lo.Map(keys, func(key collections.Triple[uint64, sdk.AccAddress, string], _ int) string {
		return key.K3()
	}), nil
}

// PendingReward returns the reward the owner would receive by harvesting at the block time.
func (k Keeper) PendingReward(ctx context.Context, poolID uint64, owner sdk.AccAddress) (sdk.Coins, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	pool, _, err = accrualStep(pool, now(ctx))
	if err != nil {
		return nil, err
	}
	position, err := k.GetPosition(ctx, poolID, owner)
	if err != nil {
		return nil, err
	}

	pending, err := pendingRewards(pool, position)
	if err != nil {
		return nil, err
	}
	coins := make(sdk.Coins, 0, len(pending))
	for i, amount := range pending {
		coins = append(coins, sdk.NewCoin(pool.RewardTokens[i].Denom, amount))
	}
	return sdk.NewCoins(coins...), nil
}

// settle books the pending reward of the position as paid and returns it. The caller updates the shares and
// persists the position, which resets the reward debt.
func (k Keeper) settle(ctx context.Context, pool types.Pool, position types.Position) (sdk.Coins, error) {
	pending, err := pendingRewards(pool, position)
	if err != nil {
		return nil, err
	}
	return k.recordPayout(ctx, pool, pending)
}

// savePosition resets the reward debt to the current accumulators and persists the position and the pool.
// Fully withdrawn positions are kept with zero shares.
func (k Keeper) savePosition(
	ctx context.Context,
	pool types.Pool,
	owner sdk.AccAddress,
	position types.Position,
) error {
	if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
		return err
	}
	key := collections.Join(pool.ID, owner)
	if position.Shares.IsZero() {
		// Positions are created by the first deposit only.
		found, err := k.Positions.Has(ctx, key)
		if err != nil || !found {
			return err
		}
	}
	debt := make([]sdkmath.Int, len(pool.AccRewardPerShare))
	for i, acc := range pool.AccRewardPerShare {
		var err error
		if debt[i], err = types.RewardDebt(acc, position.Shares); err != nil {
			return err
		}
	}
	position.RewardDebt = debt
	return k.Positions.Set(ctx, key, position)
}

func pendingRewards(pool types.Pool, position types.Position) ([]sdkmath.Int, error) {
	pending := make([]sdkmath.Int, len(pool.RewardTokens))
	for i := range pool.RewardTokens {
		var err error
		pending[i], err = types.PendingReward(pool.AccRewardPerShare[i], position.Shares, position.RewardDebt[i])
		if err != nil {
			return nil, err
		}
	}
	return pending, nil
}

// validateDeposit checks the stake offered by the sender and returns the shares it adds.
func (k Keeper) validateDeposit(
	ctx context.Context,
	pool types.Pool,
	sender sdk.AccAddress,
	itemIDs []string,
	amount sdkmath.Int,
) (sdkmath.Int, error) {
	if pool.StakeKind.IsNative() {
		if len(itemIDs) > 0 || amount.IsNil() || !amount.IsPositive() {
			return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "pool %d accepts a positive amount of %s",
				pool.ID, pool.StakeKind.Denom)
		}
		return amount, nil
	}

	if len(itemIDs) == 0 || (!amount.IsNil() && !amount.IsZero()) {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "pool %d accepts items of class %s",
			pool.ID, pool.StakeKind.ClassID)
	}
	if dup := lo.FindDuplicates(itemIDs); len(dup) > 0 {
		return sdkmath.Int{}, errors.Wrapf(types.ErrDuplicateItem, "items %v are listed twice", dup)
	}
	for _, itemID := range itemIDs {
		staked, err := k.StakedItems.Has(ctx, types.MakeStakedItemKey(pool.StakeKind.ClassID, itemID))
		if err != nil {
			return sdkmath.Int{}, err
		}
		if staked {
			return sdkmath.Int{}, errors.Wrapf(types.ErrDuplicateItem, "item %s/%s is already staked",
				pool.StakeKind.ClassID, itemID)
		}
		if owner := k.nftKeeper.GetOwner(ctx, pool.StakeKind.ClassID, itemID); !owner.Equals(sender) {
			return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "item %s/%s is not owned by %s",
				pool.StakeKind.ClassID, itemID, sender)
		}
	}
	return sdkmath.NewInt(int64(len(itemIDs))), nil
}

// validateWithdraw checks that the stake requested back belongs to the position and returns the shares it removes.
func (k Keeper) validateWithdraw(
	ctx context.Context,
	pool types.Pool,
	sender sdk.AccAddress,
	position types.Position,
	itemIDs []string,
	amount sdkmath.Int,
) (sdkmath.Int, error) {
	if pool.StakeKind.IsNative() {
		if len(itemIDs) > 0 || amount.IsNil() || !amount.IsPositive() {
			return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "pool %d returns a positive amount of %s",
				pool.ID, pool.StakeKind.Denom)
		}
		if amount.GT(position.Shares) {
			return sdkmath.Int{}, errors.Wrapf(types.ErrItemNotFound, "requested %s, staked %s",
				amount, position.Shares)
		}
		return amount, nil
	}

	if len(itemIDs) == 0 || (!amount.IsNil() && !amount.IsZero()) {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "pool %d returns items of class %s",
			pool.ID, pool.StakeKind.ClassID)
	}
	if dup := lo.FindDuplicates(itemIDs); len(dup) > 0 {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "items %v are listed twice", dup)
	}
	for _, itemID := range itemIDs {
		found, err := k.PositionItems.Has(ctx, collections.Join3(pool.ID, sender, itemID))
		if err != nil {
			return sdkmath.Int{}, err
		}
		if !found {
			return sdkmath.Int{}, errors.Wrapf(types.ErrItemNotFound, "item %s/%s is not staked by %s in pool %d",
				pool.StakeKind.ClassID, itemID, sender, pool.ID)
		}
	}
	return sdkmath.NewInt(int64(len(itemIDs))), nil
}

func (k Keeper) addItem(ctx context.Context, pool types.Pool, owner sdk.AccAddress, itemID string) error {
	if err := k.StakedItems.Set(ctx, types.MakeStakedItemKey(pool.StakeKind.ClassID, itemID), types.StakedItem{
		PoolID: pool.ID,
		Owner:  owner,
	}); err != nil {
		return err
	}
	return k.PositionItems.Set(ctx, collections.Join3(pool.ID, owner, itemID))
}

func (k Keeper) removeItem(ctx context.Context, pool types.Pool, owner sdk.AccAddress, itemID string) error {
	if err := k.StakedItems.Remove(ctx, types.MakeStakedItemKey(pool.StakeKind.ClassID, itemID)); err != nil {
		return err
	}
	return k.PositionItems.Remove(ctx, collections.Join3(pool.ID, owner, itemID))
}

// pullStake moves the stake from the sender into module custody.
func (k Keeper) pullStake(
	ctx context.Context,
	pool types.Pool,
	sender sdk.AccAddress,
	itemIDs []string,
	amount sdkmath.Int,
) error {
	if pool.StakeKind.IsNative() {
		return k.bankKeeper.SendCoinsFromAccountToModule(
			ctx, sender, types.ModuleName, sdk.NewCoins(sdk.NewCoin(pool.StakeKind.Denom, amount)),
		)
	}
	moduleAddr := k.moduleAddress()
	for _, itemID := range itemIDs {
		if err := k.nftKeeper.Transfer(ctx, pool.StakeKind.ClassID, itemID, moduleAddr); err != nil {
			return errors.Wrapf(err, "failed to take custody of %s/%s", pool.StakeKind.ClassID, itemID)
		}
	}
	return nil
}

// returnStake moves the stake from module custody back to the owner.
func (k Keeper) returnStake(
	ctx context.Context,
	pool types.Pool,
	owner sdk.AccAddress,
	itemIDs []string,
	amount sdkmath.Int,
) error {
	if pool.StakeKind.IsNative() {
		if amount.IsZero() {
			return nil
		}
		return k.bankKeeper.SendCoinsFromModuleToAccount(
			ctx, types.ModuleName, owner, sdk.NewCoins(sdk.NewCoin(pool.StakeKind.Denom, amount)),
		)
	}
	for _, itemID := range itemIDs {
		if err := k.nftKeeper.Transfer(ctx, pool.StakeKind.ClassID, itemID, owner); err != nil {
			return errors.Wrapf(err, "failed to return %s/%s", pool.StakeKind.ClassID, itemID)
		}
	}
	return nil
}
