// Package ledgersim bootstraps the nftfarm keeper on an in-memory store together with the bank and nft keepers it
// depends on.
package ledgersim

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	nftkeeper "cosmossdk.io/x/nft/keeper"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/coin98/baryon-farm/x/nftfarm/keeper"
	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// Settings for the ledger initialization.
type Settings struct {
	db        dbm.DB
	logger    log.Logger
	startTime time.Time
	owner     sdk.AccAddress
	genesis   *types.GenesisState
}

// Option represents ledger customisations.
type Option func(settings Settings) Settings

// WithCustomDB returns the Option to run with different DB.
func WithCustomDB(db dbm.DB) Option {
	return func(s Settings) Settings {
		s.db = db
		return s
	}
}

// WithCustomLogger returns the Option to run with different logger.
func WithCustomLogger(logger log.Logger) Option {
	return func(s Settings) Settings {
		s.logger = logger
		return s
	}
}

// WithStartTime returns the Option to run with different start time.
func WithStartTime(startTime time.Time) Option {
	return func(s Settings) Settings {
		s.startTime = startTime
		return s
	}
}

// WithOwner returns the Option to use a different module owner.
func WithOwner(owner sdk.AccAddress) Option {
	return func(s Settings) Settings {
		s.owner = owner
		return s
	}
}

// WithGenesis returns the Option to initialize the module from the genesis state.
func WithGenesis(genesis *types.GenesisState) Option {
	return func(s Settings) Settings {
		s.genesis = genesis
		return s
	}
}

// Ledger is the farm keeper with its collaborators on a shared store.
type Ledger struct {
	Keeper keeper.Keeper
	Bank   *Bank
	NFT    *NFTKeeper
	Owner  sdk.AccAddress

	ms     storetypes.CommitMultiStore
	logger log.Logger
	header cmtproto.Header
}

// New creates a ledger with an in-memory database and disabled logging.
func New(options ...Option) *Ledger {
	settings := Settings{
		db:        dbm.NewMemDB(),
		logger:    log.NewNopLogger(),
		startTime: time.Unix(1_700_000_000, 0).UTC(),
		owner:     authtypes.NewModuleAddress(govtypes.ModuleName),
		genesis:   types.DefaultGenesisState(),
	}
	for _, option := range options {
		settings = option(settings)
	}

	farmKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey("bank")
	nftKey := storetypes.NewKVStoreKey(nftkeeper.StoreKey)

	ms := store.NewCommitMultiStore(settings.db, settings.logger, metrics.NewNoOpMetrics())
	for _, key := range []*storetypes.KVStoreKey{farmKey, bankKey, nftKey} {
		ms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, settings.db)
	}
	if err := ms.LoadLatestVersion(); err != nil {
		panic(err)
	}

	addrCodec := addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())
	ak := accountKeeper{addressCodec: addrCodec}
	bank := NewBank(runtime.NewKVStoreService(bankKey))
	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	nftKeeper := &NFTKeeper{
		Keeper: nftkeeper.NewKeeper(runtime.NewKVStoreService(nftKey), cdc, ak, bank),
	}

	owner, err := addrCodec.BytesToString(settings.owner)
	if err != nil {
		panic(err)
	}

	l := &Ledger{
		Keeper: keeper.NewKeeper(
			runtime.NewKVStoreService(farmKey),
			owner,
			ak,
			bank,
			nftKeeper,
			addrCodec,
		),
		Bank:   bank,
		NFT:    nftKeeper,
		Owner:  settings.owner,
		ms:     ms,
		logger: settings.logger,
		header: cmtproto.Header{
			ChainID: "farmsim",
			Height:  1,
			Time:    settings.startTime,
		},
	}

	if err := l.Keeper.InitGenesis(l.Context(), *settings.genesis); err != nil {
		panic(err)
	}
	return l
}

// Context returns a context of the current block.
func (l *Ledger) Context() sdk.Context {
	return sdk.NewContext(l.ms, l.header, false, l.logger)
}

// BlockTime returns the time of the current block.
func (l *Ledger) BlockTime() time.Time {
	return l.header.Time
}

// SetBlockTime moves to a new block at the given time.
func (l *Ledger) SetBlockTime(t time.Time) {
	l.header.Height++
	l.header.Time = t
}

// AdvanceTime moves to a new block d after the current one.
func (l *Ledger) AdvanceTime(d time.Duration) {
	l.SetBlockTime(l.header.Time.Add(d))
}

// Commit persists the working state.
func (l *Ledger) Commit() storetypes.CommitID {
	return l.ms.Commit()
}

// GenAccount creates a new account address.
func (l *Ledger) GenAccount() sdk.AccAddress {
	return sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
}

// FundAccount mints the coins to the address.
func (l *Ledger) FundAccount(ctx sdk.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	return l.Bank.Mint(ctx, addr, coins)
}

// ModuleAddress returns the custody account of the farm.
func (l *Ledger) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// MsgServer returns the transaction handler of the farm.
func (l *Ledger) MsgServer() types.MsgServer {
	return keeper.NewMsgServer(l.Keeper)
}

// QueryServer returns the query handler of the farm.
func (l *Ledger) QueryServer() types.QueryServer {
	return keeper.NewQueryService(l.Keeper)
}

// CheckInvariants runs every invariant of the farm.
func (l *Ledger) CheckInvariants(ctx sdk.Context) (string, bool) {
	return keeper.AllInvariants(l.Keeper)(ctx)
}
