package keeper

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/collections"
	addresscodec "cosmossdk.io/core/address"
	sdkstore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// Keeper of the module.
type Keeper struct {
	storeService sdkstore.KVStoreService
	authority    string

	// codec
	addressCodec addresscodec.Codec

	// keepers
	accountKeeper types.AccountKeeper
	bankKeeper    types.BankKeeper
	nftKeeper     types.NFTKeeper

	// guard is shared by all copies of the keeper, at most one mutation runs at a time.
	guard *sync.Mutex

	// collections
	Schema        collections.Schema
	Params        collections.Item[types.Params]
	PoolSequence  collections.Sequence
	Pools         collections.Map[uint64, types.Pool]
	StakeKinds    collections.Map[string, uint64] // Map: stake kind key -> pool id
	RewardEscrows collections.Map[collections.Pair[uint64, string], types.RewardEscrow]
	Positions     collections.Map[collections.Pair[uint64, sdk.AccAddress], types.Position]
	StakedItems   collections.Map[collections.Pair[string, string], types.StakedItem]
	// PositionItems lists the items of a position, it is written together with StakedItems.
	PositionItems collections.KeySet[collections.Triple[uint64, sdk.AccAddress, string]]
	TimeLocks     collections.Map[string, int64] // Map: operation id -> unlock time
}

// NewKeeper returns a new keeper object providing storage options required by the module.
func NewKeeper(
	storeService sdkstore.KVStoreService,
	authority string,
	accountKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	nftKeeper types.NFTKeeper,
	addressCodec addresscodec.Codec,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService:  storeService,
		authority:     authority,
		addressCodec:  addressCodec,
		accountKeeper: accountKeeper,
		bankKeeper:    bankKeeper,
		nftKeeper:     nftKeeper,
		guard:         &sync.Mutex{},

		Params: collections.NewItem(
			sb,
			types.ParamsKey,
			"params",
			types.ParamsValue,
		),
		PoolSequence: collections.NewSequence(
			sb,
			types.PoolSequenceKey,
			"pool_sequence",
		),
		Pools: collections.NewMap(
			sb,
			types.PoolsKey,
			"pools",
			collections.Uint64Key,
			types.PoolValue,
		),
		StakeKinds: collections.NewMap(
			sb,
			types.StakeKindsKey,
			"stake_kinds",
			collections.StringKey,
			collections.Uint64Value,
		),
		RewardEscrows: collections.NewMap(
			sb,
			types.RewardEscrowsKey,
			"reward_escrows",
			collections.PairKeyCodec(collections.Uint64Key, collections.StringKey),
			types.RewardEscrowValue,
		),
		Positions: collections.NewMap(
			sb,
			types.PositionsKey,
			"positions",
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
			types.PositionValue,
		),
		StakedItems: collections.NewMap(
			sb,
			types.StakedItemsKey,
			"staked_items",
			collections.PairKeyCodec(collections.StringKey, collections.StringKey),
			types.StakedItemValue,
		),
		PositionItems: collections.NewKeySet(
			sb,
			types.PositionItemsKey,
			"position_items",
			collections.TripleKeyCodec(collections.Uint64Key, sdk.AccAddressKey, collections.StringKey),
		),
		TimeLocks: collections.NewMap(
			sb,
			types.TimeLocksKey,
			"time_locks",
			collections.StringKey,
			collections.Int64Value,
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// GetAuthority returns the owner of the module.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns the module logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// execute runs a mutation in a cached context. State is committed only when fn succeeds and a mutation started
// while another one is running is rejected.
func (k Keeper) execute(ctx context.Context, operation string, fn func(ctx sdk.Context) error) error {
	if !k.guard.TryLock() {
		return errors.Wrapf(types.ErrReentrantCall, "%s while another operation is running", operation)
	}
	defer k.guard.Unlock()
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), operation)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		k.Logger(sdkCtx).Debug("operation rejected", "operation", operation, "error", err)
		return err
	}
	writeCache()

	return nil
}

// now returns the block time in unix seconds, the clock of every accrual.
func now(ctx context.Context) int64 {
	return sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
}

func (k Keeper) moduleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}
