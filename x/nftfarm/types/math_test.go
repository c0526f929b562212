package types

import (
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestSafeArithmetic(t *testing.T) {
	requireT := require.New(t)

	maxInt := sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), sdkmath.MaxBitLen), big.NewInt(1)))

	sum, err := SafeAdd(sdkmath.NewInt(2), sdkmath.NewInt(3))
	requireT.NoError(err)
	requireT.Equal("5", sum.String())

	_, err = SafeAdd(maxInt, sdkmath.OneInt())
	requireT.ErrorIs(err, ErrArithmeticOverflow)
	requireT.ErrorContains(err, sdkmath.ErrIntOverflow.Error())

	_, err = SafeSub(sdkmath.NewInt(2), sdkmath.NewInt(3))
	requireT.ErrorIs(err, ErrArithmeticOverflow)

	_, err = SafeMul(maxInt, sdkmath.NewInt(2))
	requireT.ErrorIs(err, ErrArithmeticOverflow)

	_, err = SafeQuo(sdkmath.NewInt(2), sdkmath.ZeroInt())
	requireT.ErrorIs(err, ErrArithmeticOverflow)

	quo, err := SafeQuo(sdkmath.NewInt(7), sdkmath.NewInt(2))
	requireT.NoError(err)
	requireT.Equal("3", quo.String())
}

func TestTokenRate(t *testing.T) {
	testCases := []struct {
		name       string
		rate       int64
		multiplier sdkmath.Int
		expected   string
	}{
		{
			name:       "one_x",
			rate:       10,
			multiplier: MultiplierPrecision,
			expected:   "10",
		},
		{
			name:       "two_x",
			rate:       10,
			multiplier: MultiplierPrecision.MulRaw(2),
			expected:   "20",
		},
		{
			name:       "half_truncated",
			rate:       3,
			multiplier: MultiplierPrecision.QuoRaw(2),
			expected:   "1",
		},
		{
			name:       "truncated_to_zero",
			rate:       1,
			multiplier: sdkmath.NewInt(1),
			expected:   "0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := TokenRate(sdkmath.NewInt(tc.rate), tc.multiplier)
			require.NoError(t, err)
			require.Equal(t, tc.expected, rate.String())
		})
	}
}

func TestAccumulatorMath(t *testing.T) {
	requireT := require.New(t)

	_, err := Emission(sdkmath.NewInt(10), -1)
	requireT.ErrorIs(err, ErrArithmeticOverflow)

	// 100 seconds at 10 per second over 3 shares.
	emission, err := Emission(sdkmath.NewInt(10), 100)
	requireT.NoError(err)
	requireT.Equal("1000", emission.String())

	acc, err := AccrualDelta(emission, sdkmath.NewInt(3))
	requireT.NoError(err)
	requireT.Equal("333333333333333", acc.String())

	debt, err := RewardDebt(acc, sdkmath.NewInt(2))
	requireT.NoError(err)

	pending, err := PendingReward(acc, sdkmath.NewInt(2), sdkmath.ZeroInt())
	requireT.NoError(err)
	requireT.Equal("666", pending.String())

	pending, err = PendingReward(acc, sdkmath.NewInt(2), debt)
	requireT.NoError(err)
	requireT.True(pending.IsZero())

	_, err = PendingReward(acc, sdkmath.NewInt(1), debt)
	requireT.Error(err)
}
