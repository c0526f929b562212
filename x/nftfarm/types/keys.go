package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "nftfarm"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName

	// MaxItemIDLength is the longest accepted nft id.
	MaxItemIDLength = 128
)

// KVStore keys.
var (
	ParamsKey        = collections.NewPrefix(0)
	PoolSequenceKey  = collections.NewPrefix(1)
	PoolsKey         = collections.NewPrefix(2)
	StakeKindsKey    = collections.NewPrefix(3)
	RewardEscrowsKey = collections.NewPrefix(4)
	PositionsKey     = collections.NewPrefix(5)
	StakedItemsKey   = collections.NewPrefix(6)
	PositionItemsKey = collections.NewPrefix(7)
	TimeLocksKey     = collections.NewPrefix(8)
)

// MakeStakedItemKey creates the membership index key of an item: (class_id, nft_id).
func MakeStakedItemKey(classID, nftID string) collections.Pair[string, string] {
	return collections.Join(classID, nftID)
}
