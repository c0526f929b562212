package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
)

var (
	// AccRewardPrecision is the fixed-point scale of AccRewardPerShare. It keeps the truncation loss of a single
	// accrual step below one base unit per share for any rate of at least one base unit per second, while
	// elapsed * rate * AccRewardPrecision * shares stays far below the 256-bit limit of math.Int.
	AccRewardPrecision = sdkmath.NewIntWithDecimal(1, 12)
	// MultiplierPrecision is the fixed-point base of reward token multipliers, it represents 1.0.
	MultiplierPrecision = sdkmath.NewIntWithDecimal(1, 18)
)

// SafeAdd returns a + b or ErrArithmeticOverflow.
func SafeAdd(a, b sdkmath.Int) (sdkmath.Int, error) {
	res, err := a.SafeAdd(b)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "%s + %s: %s", a, b, err)
	}
	return res, nil
}

// SafeSub returns a - b. A negative result is reported as ErrArithmeticOverflow.
func SafeSub(a, b sdkmath.Int) (sdkmath.Int, error) {
	res, err := a.SafeSub(b)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "%s - %s: %s", a, b, err)
	}
	if res.IsNegative() {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "underflow: %s - %s", a, b)
	}
	return res, nil
}

// SafeMul returns a * b or ErrArithmeticOverflow.
func SafeMul(a, b sdkmath.Int) (sdkmath.Int, error) {
	res, err := a.SafeMul(b)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "%s * %s: %s", a, b, err)
	}
	return res, nil
}

// SafeQuo returns a / b truncated toward zero.
func SafeQuo(a, b sdkmath.Int) (sdkmath.Int, error) {
	if b.IsZero() {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "division by zero: %s / 0", a)
	}
	res, err := a.SafeQuo(b)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "%s / %s: %s", a, b, err)
	}
	return res, nil
}

// TokenRate returns the per-second emission of a reward token: rewardPerSecond * multiplier / MultiplierPrecision.
func TokenRate(rewardPerSecond, multiplier sdkmath.Int) (sdkmath.Int, error) {
	scaled, err := SafeMul(rewardPerSecond, multiplier)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return SafeQuo(scaled, MultiplierPrecision)
}

// Emission returns the reward emitted by rate over the given number of seconds.
func Emission(rate sdkmath.Int, seconds int64) (sdkmath.Int, error) {
	if seconds < 0 {
		return sdkmath.Int{}, ErrArithmeticOverflow.Wrapf("negative interval %d", seconds)
	}
	return SafeMul(rate, sdkmath.NewInt(seconds))
}

// AccrualDelta returns emission * AccRewardPrecision / totalShares, the increase of AccRewardPerShare.
// Truncation dust is never paid out.
func AccrualDelta(emission, totalShares sdkmath.Int) (sdkmath.Int, error) {
	scaled, err := SafeMul(emission, AccRewardPrecision)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return SafeQuo(scaled, totalShares)
}

// RewardDebt returns the scaled debt snapshot acc * shares.
func RewardDebt(acc, shares sdkmath.Int) (sdkmath.Int, error) {
	return SafeMul(acc, shares)
}

// PendingReward returns (acc * shares - debt) / AccRewardPrecision.
func PendingReward(acc, shares, debt sdkmath.Int) (sdkmath.Int, error) {
	entitled, err := RewardDebt(acc, shares)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if entitled.LT(debt) {
		return sdkmath.Int{}, cosmoserrors.ErrLogic.Wrapf("reward debt %s exceeds entitlement %s", debt, entitled)
	}
	return SafeQuo(entitled.Sub(debt), AccRewardPrecision)
}
