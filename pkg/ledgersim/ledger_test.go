package ledgersim_test

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/coin98/baryon-farm/pkg/ledgersim"
)

func TestBank(t *testing.T) {
	requireT := require.New(t)

	ledger := ledgersim.New()
	ctx := ledger.Context()
	alice := ledger.GenAccount()
	bob := ledger.GenAccount()

	requireT.NoError(ledger.FundAccount(ctx, alice, sdk.NewCoins(sdk.NewInt64Coin("ubary", 100), sdk.NewInt64Coin("uvic", 5))))
	requireT.Equal("5uvic,100ubary", ledger.Bank.SpendableCoins(ctx, alice).String())

	err := ledger.Bank.SendCoins(ctx, alice, bob, sdk.NewCoins(sdk.NewInt64Coin("ubary", 101)))
	requireT.ErrorIs(err, cosmoserrors.ErrInsufficientFunds)

	ledger.Bank.SetTransferFee("ubary", sdkmath.NewInt(3))
	requireT.NoError(ledger.Bank.SendCoins(ctx, alice, bob, sdk.NewCoins(sdk.NewInt64Coin("ubary", 40))))
	requireT.Equal("60", ledger.Bank.GetBalance(ctx, alice, "ubary").Amount.String())
	requireT.Equal("37", ledger.Bank.GetBalance(ctx, bob, "ubary").Amount.String())

	requireT.NoError(ledger.Bank.SendCoinsFromAccountToModule(ctx, alice, "nftfarm", sdk.NewCoins(sdk.NewInt64Coin("uvic", 5))))
	requireT.Equal("5", ledger.Bank.GetBalance(ctx, ledger.ModuleAddress(), "uvic").Amount.String())

	hookErr := errors.New("rejected")
	ledger.Bank.SetSendHook(func(context.Context, sdk.AccAddress, sdk.AccAddress, sdk.Coins) error {
		return hookErr
	})
	err = ledger.Bank.SendCoinsFromModuleToAccount(ctx, "nftfarm", bob, sdk.NewCoins(sdk.NewInt64Coin("uvic", 5)))
	requireT.ErrorIs(err, hookErr)
}

func TestNFT(t *testing.T) {
	requireT := require.New(t)

	ledger := ledgersim.New()
	ctx := ledger.Context()
	alice := ledger.GenAccount()
	bob := ledger.GenAccount()

	requireT.NoError(ledger.NFT.CreateClass(ctx, "kitty"))
	requireT.True(ledger.NFT.HasClass(ctx, "kitty"))
	requireT.NoError(ledger.NFT.MintTo(ctx, "kitty", "kitty-1", alice))
	requireT.Equal(alice, ledger.NFT.GetOwner(ctx, "kitty", "kitty-1"))

	var transferred []string
	ledger.NFT.SetTransferHook(func(_ context.Context, classID, nftID string, _ sdk.AccAddress) error {
		transferred = append(transferred, classID+"/"+nftID)
		return nil
	})
	requireT.NoError(ledger.NFT.Transfer(ctx, "kitty", "kitty-1", bob))
	requireT.Equal(bob, ledger.NFT.GetOwner(ctx, "kitty", "kitty-1"))
	requireT.Equal([]string{"kitty/kitty-1"}, transferred)
}

func TestBlockTime(t *testing.T) {
	requireT := require.New(t)

	start := time.Unix(1_000, 0).UTC()
	ledger := ledgersim.New(ledgersim.WithStartTime(start))
	requireT.Equal(start, ledger.BlockTime())

	ledger.AdvanceTime(time.Minute)
	requireT.Equal(start.Add(time.Minute), ledger.Context().BlockTime())
	requireT.Equal(int64(2), ledger.Context().BlockHeight())

	ledger.Commit()
	msg, broken := ledger.CheckInvariants(ledger.Context())
	requireT.False(broken, msg)
}
