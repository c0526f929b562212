package ledgersim

import (
	"context"

	"cosmossdk.io/core/address"
	"cosmossdk.io/x/nft"
	nftkeeper "cosmossdk.io/x/nft/keeper"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// TransferHook is called after every successful nft transfer.
type TransferHook func(ctx context.Context, classID, nftID string, receiver sdk.AccAddress) error

// NFTKeeper is the x/nft keeper with an optional transfer hook, which lets tests play a receiver calling back
// into the farm.
type NFTKeeper struct {
	nftkeeper.Keeper

	hook TransferHook
}

// SetTransferHook installs a hook called after every transfer.
func (k *NFTKeeper) SetTransferHook(hook TransferHook) {
	k.hook = hook
}

// Transfer moves the nft to the receiver.
func (k *NFTKeeper) Transfer(ctx context.Context, classID, nftID string, receiver sdk.AccAddress) error {
	if err := k.Keeper.Transfer(ctx, classID, nftID, receiver); err != nil {
		return err
	}
	if k.hook != nil {
		return k.hook(ctx, classID, nftID, receiver)
	}
	return nil
}

// CreateClass registers an nft class.
func (k *NFTKeeper) CreateClass(ctx context.Context, classID string) error {
	return k.SaveClass(ctx, nft.Class{
		Id:   classID,
		Name: classID,
	})
}

// MintTo mints an nft of the class to the owner.
func (k *NFTKeeper) MintTo(ctx context.Context, classID, nftID string, owner sdk.AccAddress) error {
	return k.Mint(ctx, nft.NFT{
		ClassId: classID,
		Id:      nftID,
	}, owner)
}

// accountKeeper resolves module addresses and accounts the way x/auth derives them.
type accountKeeper struct {
	addressCodec address.Codec
}

func (ak accountKeeper) AddressCodec() address.Codec {
	return ak.addressCodec
}

func (ak accountKeeper) GetModuleAddress(moduleName string) sdk.AccAddress {
	return authtypes.NewModuleAddress(moduleName)
}

func (ak accountKeeper) GetAccount(_ context.Context, addr sdk.AccAddress) sdk.AccountI {
	return authtypes.NewBaseAccountWithAddress(addr)
}
