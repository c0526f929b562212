package keeper

import (
	"fmt"
	"strings"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// RegisterInvariants registers the module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "conservation", ConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "shares", SharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody", CustodyInvariant(k))
}

// AllInvariants runs every invariant of the module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{ConservationInvariant(k), SharesInvariant(k), CustodyInvariant(k)} {
			if msg, broken := inv(ctx); broken {
				return msg, true
			}
		}
		return "", false
	}
}

// ConservationInvariant checks that for every reward token paid plus pending reward never exceeds the escrow
// left after sweeps, and that accrued reward never exceeds it either.
func ConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string
		pools, err := k.GetPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "conservation", err.Error()), true
		}

		for _, pool := range pools {
			projected, emissions, err := accrualStep(pool, now(ctx))
			if err != nil {
				broken = append(broken, err.Error())
				continue
			}
			pending := make([]sdkmath.Int, len(pool.RewardTokens))
			for i := range pending {
				pending[i] = sdkmath.ZeroInt()
			}
			err = k.Positions.Walk(ctx, collections.NewPrefixedPairRange[uint64, sdk.AccAddress](pool.ID),
				func(_ collections.Pair[uint64, sdk.AccAddress], position types.Position) (bool, error) {
					amounts, err := pendingRewards(projected, position)
					if err != nil {
						return true, err
					}
					for i, amount := range amounts {
						pending[i] = pending[i].Add(amount)
					}
					return false, nil
				})
			if err != nil {
				broken = append(broken, fmt.Sprintf("pool %d: %s", pool.ID, err))
				continue
			}

			for i, token := range pool.RewardTokens {
				escrow, err := k.getRewardEscrow(ctx, pool.ID, token.Denom)
				if err != nil {
					broken = append(broken, err.Error())
					continue
				}
				available := escrow.Funded.Sub(escrow.Swept)
				accrued := escrow.Accrued.Add(emissions[i])
				if accrued.GT(available) {
					broken = append(broken, fmt.Sprintf("pool %d %s: accrued %s exceeds escrow %s",
						pool.ID, token.Denom, accrued, available))
				}
				if owed := escrow.Paid.Add(pending[i]); owed.GT(available) {
					broken = append(broken, fmt.Sprintf("pool %d %s: paid plus pending %s exceeds escrow %s",
						pool.ID, token.Denom, owed, available))
				}
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "conservation", strings.Join(broken, "\n")), len(broken) > 0
	}
}

// SharesInvariant checks that pool shares equal the sum of position shares and that nft positions hold exactly
// one share per staked item.
func SharesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string
		pools, err := k.GetPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "shares", err.Error()), true
		}

		for _, pool := range pools {
			total := sdkmath.ZeroInt()
			err := k.Positions.Walk(ctx, collections.NewPrefixedPairRange[uint64, sdk.AccAddress](pool.ID),
				func(key collections.Pair[uint64, sdk.AccAddress], position types.Position) (bool, error) {
					total = total.Add(position.Shares)
					if pool.StakeKind.IsNative() {
						return false, nil
					}
					items, err := k.GetStakedItems(ctx, pool.ID, key.K2())
					if err != nil {
						return true, err
					}
					if !position.Shares.Equal(sdkmath.NewInt(int64(len(items)))) {
						broken = append(broken, fmt.Sprintf("pool %d %s: %s shares, %d items",
							pool.ID, key.K2(), position.Shares, len(items)))
					}
					for _, itemID := range items {
						item, err := k.StakedItems.Get(ctx, types.MakeStakedItemKey(pool.StakeKind.ClassID, itemID))
						if err != nil || item.PoolID != pool.ID || !item.Owner.Equals(key.K2()) {
							broken = append(broken, fmt.Sprintf("pool %d %s: item %s is not indexed",
								pool.ID, key.K2(), itemID))
						}
					}
					return false, nil
				})
			if err != nil {
				broken = append(broken, fmt.Sprintf("pool %d: %s", pool.ID, err))
				continue
			}
			if !total.Equal(pool.TotalShares) {
				broken = append(broken, fmt.Sprintf("pool %d: total shares %s, positions hold %s",
					pool.ID, pool.TotalShares, total))
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "shares", strings.Join(broken, "\n")), len(broken) > 0
	}
}

// CustodyInvariant checks that the module balance covers everything the pools reserve.
func CustodyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var broken []string
		reserved, err := k.ReservedBalances(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody", err.Error()), true
		}

		moduleAddr := k.moduleAddress()
		reserved.Range(func(denom string, amount sdkmath.Int) bool {
			if balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom); balance.Amount.LT(amount) {
				broken = append(broken, fmt.Sprintf("%s: balance %s, reserved %s", denom, balance.Amount, amount))
			}
			return true
		})

		return sdk.FormatInvariant(types.ModuleName, "custody", strings.Join(broken, "\n")), len(broken) > 0
	}
}
