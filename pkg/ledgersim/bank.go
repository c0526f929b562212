package ledgersim

import (
	"context"

	"cosmossdk.io/collections"
	sdkstore "cosmossdk.io/core/store"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/pkg/errors"

	"github.com/coin98/baryon-farm/pkg/deterministicmap"
)

// SendHook is called after every successful transfer of the bank.
type SendHook func(ctx context.Context, from, to sdk.AccAddress, coins sdk.Coins) error

// Bank is a minimal bank keeper keeping balances in the ledger store, so transfers are reverted together with the
// rest of a failed operation.
type Bank struct {
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]

	// transferFees are deducted from every transfer of the denom before crediting the recipient.
	transferFees *deterministicmap.Map[string, sdkmath.Int]
	hook         SendHook
}

// NewBank creates a bank on the store.
func NewBank(storeService sdkstore.KVStoreService) *Bank {
	sb := collections.NewSchemaBuilder(storeService)
	b := &Bank{
		Balances: collections.NewMap(
			sb,
			collections.NewPrefix(0),
			"balances",
			collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey),
			sdk.IntValue,
		),
		transferFees: deterministicmap.New[string, sdkmath.Int](),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return b
}

// SetTransferFee makes every transfer of the denom deliver fee less than sent.
func (b *Bank) SetTransferFee(denom string, fee sdkmath.Int) {
	b.transferFees.Set(denom, fee)
}

// SetSendHook installs a hook called after every transfer.
func (b *Bank) SetSendHook(hook SendHook) {
	b.hook = hook
}

// GetBalance returns the balance of the address in the denom.
func (b *Bank) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := b.Balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		return sdk.NewCoin(denom, sdkmath.ZeroInt())
	}
	return sdk.NewCoin(denom, amount)
}

// SpendableCoins returns all balances of the address.
func (b *Bank) SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	coins := sdk.NewCoins()
	err := b.Balances.Walk(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, string](addr),
		func(key collections.Pair[sdk.AccAddress, string], amount sdkmath.Int) (bool, error) {
			coins = coins.Add(sdk.NewCoin(key.K2(), amount))
			return false, nil
		})
	if err != nil {
		panic(err)
	}
	return coins
}

// Mint credits new coins to the address.
func (b *Bank) Mint(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	for _, coin := range coins {
		if err := b.credit(ctx, addr, coin); err != nil {
			return err
		}
	}
	return nil
}

// SendCoins transfers coins between accounts.
func (b *Bank) SendCoins(ctx context.Context, from, to sdk.AccAddress, coins sdk.Coins) error {
	if !coins.IsValid() {
		return errors.Wrapf(cosmoserrors.ErrInvalidCoins, "%s", coins)
	}
	for _, coin := range coins {
		balance := b.GetBalance(ctx, from, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errors.Wrapf(cosmoserrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
		}
		if err := b.Balances.Set(ctx, collections.Join(from, coin.Denom), balance.Amount.Sub(coin.Amount)); err != nil {
			return err
		}

		delivered := coin
		if fee, found := b.transferFees.Get(coin.Denom); found {
			delivered.Amount = sdkmath.MaxInt(coin.Amount.Sub(fee), sdkmath.ZeroInt())
		}
		if err := b.credit(ctx, to, delivered); err != nil {
			return err
		}
	}

	if b.hook != nil {
		return b.hook(ctx, from, to, coins)
	}
	return nil
}

// SendCoinsFromAccountToModule transfers coins from an account to a module account.
func (b *Bank) SendCoinsFromAccountToModule(
	ctx context.Context,
	senderAddr sdk.AccAddress,
	recipientModule string,
	amt sdk.Coins,
) error {
	return b.SendCoins(ctx, senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount transfers coins from a module account to an account.
func (b *Bank) SendCoinsFromModuleToAccount(
	ctx context.Context,
	senderModule string,
	recipientAddr sdk.AccAddress,
	amt sdk.Coins,
) error {
	return b.SendCoins(ctx, authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

func (b *Bank) credit(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	balance := b.GetBalance(ctx, addr, coin.Denom)
	return b.Balances.Set(ctx, collections.Join(addr, coin.Denom), balance.Amount.Add(coin.Amount))
}
