package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// AddPool creates a pool and pulls rate * duration of every reward token from the sender into custody.
func (k Keeper) AddPool(
	ctx context.Context,
	sender sdk.AccAddress,
	stakeKind types.StakeKind,
	rewardTokens []types.RewardToken,
	startTime, expirationTime int64,
	rewardPerSecond sdkmath.Int,
) (uint64, error) {
	var poolID uint64
	err := k.execute(ctx, "add_pool", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, sender, types.RoleOperator); err != nil {
			return err
		}
		if err := stakeKind.Validate(); err != nil {
			return errors.Wrap(types.ErrInvalidInput, err.Error())
		}
		if err := types.ValidateSchedule(startTime, expirationTime); err != nil {
			return err
		}
		if err := types.ValidateRewardTokens(rewardPerSecond, rewardTokens); err != nil {
			return err
		}
		if !stakeKind.IsNative() && !k.nftKeeper.HasClass(ctx, stakeKind.ClassID) {
			return errors.Wrapf(types.ErrInvalidInput, "nft class %s does not exist", stakeKind.ClassID)
		}

		taken, err := k.StakeKinds.Has(ctx, stakeKind.Key())
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(types.ErrDuplicateStakeKind, "%s already has a pool", stakeKind)
		}

		senderStr, err := k.addressCodec.BytesToString(sender)
		if err != nil {
			return errors.Wrap(types.ErrInvalidInput, err.Error())
		}

		id, err := k.PoolSequence.Next(ctx)
		if err != nil {
			return err
		}

		acc := make([]sdkmath.Int, len(rewardTokens))
		for i := range acc {
			acc[i] = sdkmath.ZeroInt()
		}
		pool := types.Pool{
			ID:                id,
			StakeKind:         stakeKind,
			RewardTokens:      rewardTokens,
			RewardPerSecond:   rewardPerSecond,
			StartTime:         startTime,
			ExpirationTime:    expirationTime,
			LastAccrualTime:   startTime,
			TotalShares:       sdkmath.ZeroInt(),
			AccRewardPerShare: acc,
			Creator:           senderStr,
		}

		required := make(sdk.Coins, 0, len(rewardTokens))
		for i, token := range rewardTokens {
			rate, err := pool.RewardRate(i)
			if err != nil {
				return err
			}
			amount, err := types.Emission(rate, pool.Duration())
			if err != nil {
				return err
			}
			if err := k.RewardEscrows.Set(ctx, collections.Join(id, token.Denom), types.NewRewardEscrow(amount)); err != nil {
				return err
			}
			required = append(required, sdk.NewCoin(token.Denom, amount))
		}

		if err := k.Pools.Set(ctx, id, pool); err != nil {
			return err
		}
		if err := k.StakeKinds.Set(ctx, stakeKind.Key(), id); err != nil {
			return err
		}
		if err := k.fundEscrow(ctx, sender, sdk.NewCoins(required...)); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolAdded,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyStakeKind, stakeKind.String()),
			sdk.NewAttribute(types.AttributeKeyStartTime, strconv.FormatInt(startTime, 10)),
			sdk.NewAttribute(types.AttributeKeyExpiration, strconv.FormatInt(expirationTime, 10)),
			sdk.NewAttribute(types.AttributeKeyRate, rewardPerSecond.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, sdk.NewCoins(required...).String()),
		))
		k.Logger(ctx).Info("pool added", "pool_id", id, "stake_kind", stakeKind.String())

		poolID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return poolID, nil
}

// ReconfigurePool changes the window and the emission rate of a pool. Reward accrued so far is preserved,
// the new rate applies from max(last accrual, new start), or from max(new start, now) while the pool has not
// started. Missing escrow for the new commitment is pulled from
// the authority.
func (k Keeper) ReconfigurePool(
	ctx context.Context,
	authority sdk.AccAddress,
	poolID uint64,
	startTime, expirationTime int64,
	rewardPerSecond sdkmath.Int,
) error {
	return k.execute(ctx, "reconfigure_pool", func(ctx sdk.Context) error {
		if err := k.authorize(ctx, authority, types.RoleOwner); err != nil {
			return err
		}
		if err := k.assertUnlocked(ctx, types.OperationReconfigurePool); err != nil {
			return err
		}
		if err := types.ValidateSchedule(startTime, expirationTime); err != nil {
			return err
		}

		pool, err := k.accruedPool(ctx, poolID)
		if err != nil {
			return err
		}
		if err := types.ValidateRewardTokens(rewardPerSecond, pool.RewardTokens); err != nil {
			return err
		}

		lastAccrual := max(pool.LastAccrualTime, startTime)
		if blockTime := now(ctx); pool.LastAccrualTime > blockTime {
			// The window has not opened yet, an earlier start takes effect.
			lastAccrual = max(startTime, blockTime)
		}
		if expirationTime < lastAccrual {
			return errors.Wrapf(types.ErrInvalidSchedule,
				"expiration %d is before the last accrual %d", expirationTime, lastAccrual)
		}

		pool.StartTime = startTime
		pool.ExpirationTime = expirationTime
		pool.RewardPerSecond = rewardPerSecond
		pool.LastAccrualTime = lastAccrual

		topUp := make(sdk.Coins, 0, len(pool.RewardTokens))
		for i, token := range pool.RewardTokens {
			escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
			if err != nil {
				return err
			}
			future, err := k.futureEmission(pool, i)
			if err != nil {
				return err
			}
			committed, err := types.SafeAdd(escrow.Accrued, future)
			if err != nil {
				return err
			}
			if committed, err = types.SafeAdd(committed, escrow.Swept); err != nil {
				return err
			}
			if committed.GT(escrow.Funded) {
				shortfall := committed.Sub(escrow.Funded)
				escrow.Funded = committed
				topUp = append(topUp, sdk.NewCoin(token.Denom, shortfall))
				if err := k.RewardEscrows.Set(ctx, collections.Join(pool.ID, token.Denom), escrow); err != nil {
					return err
				}
			}
		}

		if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
			return err
		}
		if len(topUp) > 0 {
			if err := k.fundEscrow(ctx, authority, sdk.NewCoins(topUp...)); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypePoolReconfigured,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyStartTime, strconv.FormatInt(startTime, 10)),
			sdk.NewAttribute(types.AttributeKeyExpiration, strconv.FormatInt(expirationTime, 10)),
			sdk.NewAttribute(types.AttributeKeyRate, rewardPerSecond.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, sdk.NewCoins(topUp...).String()),
		))
		return nil
	})
}

// GetPool returns the stored pool.
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.Pools.Get(ctx, poolID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Pool{}, errors.Wrapf(types.ErrPoolNotFound, "pool %d", poolID)
	}
	if err != nil {
		return types.Pool{}, err
	}
	return pool, nil
}

// GetPools returns all pools ordered by id.
func (k Keeper) GetPools(ctx context.Context) ([]types.Pool, error) {
	iter, err := k.Pools.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	return iter.Values()
}

// accruedPool loads the pool and brings its accumulators up to the block time. The pool is persisted.
func (k Keeper) accruedPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.Pool{}, err
	}

	pool, emissions, err := accrualStep(pool, now(ctx))
	if err != nil {
		return types.Pool{}, err
	}
	for i, emission := range emissions {
		if emission.IsZero() {
			continue
		}
		denom := pool.RewardTokens[i].Denom
		escrow, err := k.getRewardEscrow(ctx, pool.ID, denom)
		if err != nil {
			return types.Pool{}, err
		}
		if escrow.Accrued, err = types.SafeAdd(escrow.Accrued, emission); err != nil {
			return types.Pool{}, err
		}
		if err := k.RewardEscrows.Set(ctx, collections.Join(pool.ID, denom), escrow); err != nil {
			return types.Pool{}, err
		}
	}

	if err := k.Pools.Set(ctx, pool.ID, pool); err != nil {
		return types.Pool{}, err
	}
	return pool, nil
}

// accrualStep advances the accumulators of the pool to min(now, expiration) and returns the emission of every
// reward token over the interval. An interval without shares is skipped, its emission is never accrued.
func accrualStep(pool types.Pool, now int64) (types.Pool, []sdkmath.Int, error) {
	emissions := make([]sdkmath.Int, len(pool.RewardTokens))
	for i := range emissions {
		emissions[i] = sdkmath.ZeroInt()
	}

	effectiveNow := min(now, pool.ExpirationTime)
	if effectiveNow <= pool.LastAccrualTime {
		return pool, emissions, nil
	}
	if pool.TotalShares.IsZero() {
		pool.LastAccrualTime = effectiveNow
		return pool, emissions, nil
	}

	elapsed := effectiveNow - pool.LastAccrualTime
	acc := make([]sdkmath.Int, len(pool.AccRewardPerShare))
	for i := range pool.RewardTokens {
		rate, err := pool.RewardRate(i)
		if err != nil {
			return types.Pool{}, nil, err
		}
		emission, err := types.Emission(rate, elapsed)
		if err != nil {
			return types.Pool{}, nil, err
		}
		delta, err := types.AccrualDelta(emission, pool.TotalShares)
		if err != nil {
			return types.Pool{}, nil, err
		}
		if acc[i], err = types.SafeAdd(pool.AccRewardPerShare[i], delta); err != nil {
			return types.Pool{}, nil, err
		}
		emissions[i] = emission
	}

	pool.AccRewardPerShare = acc
	pool.LastAccrualTime = effectiveNow
	return pool, emissions, nil
}

// futureEmission returns the emission of the i-th reward token still committed to the rest of the window.
func (k Keeper) futureEmission(pool types.Pool, i int) (sdkmath.Int, error) {
	rate, err := pool.RewardRate(i)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return types.Emission(rate, pool.ExpirationTime-pool.LastAccrualTime)
}

func (k Keeper) getRewardEscrow(ctx context.Context, poolID uint64, denom string) (types.RewardEscrow, error) {
	escrow, err := k.RewardEscrows.Get(ctx, collections.Join(poolID, denom))
	if errors.Is(err, collections.ErrNotFound) {
		return types.RewardEscrow{}, errors.Wrapf(types.ErrPoolNotFound, "pool %d has no %s escrow", poolID, denom)
	}
	return escrow, err
}

// GetRewardEscrows returns the escrows of a pool in reward token order.
func (k Keeper) GetRewardEscrows(ctx context.Context, pool types.Pool) ([]types.PoolRewardEscrow, error) {
	escrows := make([]types.PoolRewardEscrow, 0, len(pool.RewardTokens))
	for _, token := range pool.RewardTokens {
		escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
		if err != nil {
			return nil, err
		}
		escrows = append(escrows, types.PoolRewardEscrow{
			PoolID: pool.ID,
			Denom:  token.Denom,
			Escrow: escrow,
		})
	}
	return escrows, nil
}
