package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StakeKind identifies what a pool accepts: an nft class or, for native pools, a bank denom.
type StakeKind struct {
	ClassID string `json:"class_id,omitempty"`
	Denom   string `json:"denom,omitempty"`
}

// NFTStakeKind returns the stake kind of an nft class.
func NFTStakeKind(classID string) StakeKind {
	return StakeKind{ClassID: classID}
}

// NativeStakeKind returns the stake kind of a bank denom.
func NativeStakeKind(denom string) StakeKind {
	return StakeKind{Denom: denom}
}

// IsNative reports whether shares are measured in staked amount instead of items.
func (s StakeKind) IsNative() bool {
	return s.Denom != ""
}

// Key returns the uniqueness key of the stake kind.
func (s StakeKind) Key() string {
	if s.IsNative() {
		return "native/" + s.Denom
	}
	return "nft/" + s.ClassID
}

// Validate checks that exactly one of class id and denom is set.
func (s StakeKind) Validate() error {
	switch {
	case s.ClassID != "" && s.Denom != "":
		return errorsmod.Wrap(ErrInvalidInput, "stake kind must be either an nft class or a denom")
	case s.ClassID != "":
		if err := sdk.ValidateDenom(s.ClassID); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "invalid class id %q", s.ClassID)
		}
		return nil
	case s.Denom != "":
		return sdk.ValidateDenom(s.Denom)
	default:
		return errorsmod.Wrap(ErrInvalidInput, "stake kind is empty")
	}
}

func (s StakeKind) String() string {
	return s.Key()
}

// RewardToken is the configuration of one reward token of a pool.
type RewardToken struct {
	Denom string `json:"denom"`
	// Multiplier is a fixed-point scalar with base MultiplierPrecision.
	Multiplier sdkmath.Int `json:"multiplier"`
}

// ValidateRewardTokens checks the reward token set of a pool.
func ValidateRewardTokens(rewardPerSecond sdkmath.Int, tokens []RewardToken) error {
	if len(tokens) == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "at least one reward token is required")
	}
	if rewardPerSecond.IsNil() || !rewardPerSecond.IsPositive() {
		return errorsmod.Wrap(ErrInvalidInput, "reward per second must be positive")
	}
	seen := make(map[string]struct{}, len(tokens))
	for i, token := range tokens {
		if err := sdk.ValidateDenom(token.Denom); err != nil {
			return errorsmod.Wrapf(ErrInvalidInput, "reward token %d: %s", i, err)
		}
		if _, found := seen[token.Denom]; found {
			return errorsmod.Wrapf(ErrInvalidInput, "reward token %d: duplicate denom %s", i, token.Denom)
		}
		seen[token.Denom] = struct{}{}
		if token.Multiplier.IsNil() || !token.Multiplier.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidInput, "reward token %d: multiplier must be positive", i)
		}
		rate, err := TokenRate(rewardPerSecond, token.Multiplier)
		if err != nil {
			return err
		}
		if rate.IsZero() {
			return errorsmod.Wrapf(ErrInvalidInput, "reward token %d: emission rate truncates to zero", i)
		}
	}
	return nil
}

// ValidateSchedule checks the accrual window ordering.
func ValidateSchedule(startTime, expirationTime int64) error {
	if startTime < 0 {
		return errorsmod.Wrapf(ErrInvalidSchedule, "negative start time %d", startTime)
	}
	if expirationTime <= startTime {
		return errorsmod.Wrapf(ErrInvalidSchedule, "expiration %d must be after start %d", expirationTime, startTime)
	}
	return nil
}

// Pool is an isolated staking campaign.
type Pool struct {
	ID              uint64        `json:"id"`
	StakeKind       StakeKind     `json:"stake_kind"`
	RewardTokens    []RewardToken `json:"reward_tokens"`
	RewardPerSecond sdkmath.Int   `json:"reward_per_second"`
	StartTime       int64         `json:"start_time"`
	ExpirationTime  int64         `json:"expiration_time"`
	LastAccrualTime int64         `json:"last_accrual_time"`
	TotalShares     sdkmath.Int   `json:"total_shares"`
	// AccRewardPerShare is parallel to RewardTokens and scaled by AccRewardPrecision.
	AccRewardPerShare []sdkmath.Int `json:"acc_reward_per_share"`
	Creator           string        `json:"creator"`
}

// Duration returns the length of the accrual window in seconds.
func (p Pool) Duration() int64 {
	return p.ExpirationTime - p.StartTime
}

// Ended reports whether the accrual window is closed at the given time.
func (p Pool) Ended(now int64) bool {
	return now >= p.ExpirationTime
}

// RewardRate returns the per-second emission of the i-th reward token.
func (p Pool) RewardRate(i int) (sdkmath.Int, error) {
	return TokenRate(p.RewardPerSecond, p.RewardTokens[i].Multiplier)
}

// RewardDenoms returns the reward denoms in configuration order.
func (p Pool) RewardDenoms() []string {
	denoms := make([]string, len(p.RewardTokens))
	for i, token := range p.RewardTokens {
		denoms[i] = token.Denom
	}
	return denoms
}

// RewardIndex returns the position of the denom in RewardTokens.
func (p Pool) RewardIndex(denom string) (int, bool) {
	for i, token := range p.RewardTokens {
		if token.Denom == denom {
			return i, true
		}
	}
	return 0, false
}

// Validate checks the stored invariants of the pool.
func (p Pool) Validate() error {
	if err := p.StakeKind.Validate(); err != nil {
		return errorsmod.Wrapf(err, "pool %d", p.ID)
	}
	if err := ValidateSchedule(p.StartTime, p.ExpirationTime); err != nil {
		return errorsmod.Wrapf(err, "pool %d", p.ID)
	}
	if err := ValidateRewardTokens(p.RewardPerSecond, p.RewardTokens); err != nil {
		return errorsmod.Wrapf(err, "pool %d", p.ID)
	}
	if p.LastAccrualTime < p.StartTime || p.LastAccrualTime > p.ExpirationTime {
		return errorsmod.Wrapf(ErrInvalidSchedule, "pool %d: last accrual %d outside [%d, %d]",
			p.ID, p.LastAccrualTime, p.StartTime, p.ExpirationTime)
	}
	if p.TotalShares.IsNil() || p.TotalShares.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidInput, "pool %d: invalid total shares", p.ID)
	}
	if len(p.AccRewardPerShare) != len(p.RewardTokens) {
		return errorsmod.Wrapf(ErrInvalidInput, "pool %d: %d accumulators for %d reward tokens",
			p.ID, len(p.AccRewardPerShare), len(p.RewardTokens))
	}
	for i, acc := range p.AccRewardPerShare {
		if acc.IsNil() || acc.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidInput, "pool %d: invalid accumulator %d", p.ID, i)
		}
	}
	return nil
}

// RewardEscrow is the reward custody bookkeeping of one reward token of a pool.
type RewardEscrow struct {
	// Funded is the amount transferred into custody for the pool.
	Funded sdkmath.Int `json:"funded"`
	// Accrued is the reward emitted into the accumulator, less forfeited reward.
	Accrued sdkmath.Int `json:"accrued"`
	Paid    sdkmath.Int `json:"paid"`
	Swept   sdkmath.Int `json:"swept"`
}

// NewRewardEscrow returns an escrow funded with the given amount.
func NewRewardEscrow(funded sdkmath.Int) RewardEscrow {
	return RewardEscrow{
		Funded:  funded,
		Accrued: sdkmath.ZeroInt(),
		Paid:    sdkmath.ZeroInt(),
		Swept:   sdkmath.ZeroInt(),
	}
}

// Custody returns the amount of the token still held for the pool.
func (e RewardEscrow) Custody() (sdkmath.Int, error) {
	out, err := SafeAdd(e.Paid, e.Swept)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return SafeSub(e.Funded, out)
}

// Surplus returns the escrow which is neither accrued nor committed to the rest of the window.
// It is zero when the escrow is fully committed.
func (e RewardEscrow) Surplus(future sdkmath.Int) (sdkmath.Int, error) {
	committed, err := SafeAdd(e.Accrued, future)
	if err != nil {
		return sdkmath.Int{}, err
	}
	committed, err = SafeAdd(committed, e.Swept)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if committed.GTE(e.Funded) {
		return sdkmath.ZeroInt(), nil
	}
	return e.Funded.Sub(committed), nil
}

func (e RewardEscrow) String() string {
	return fmt.Sprintf("funded=%s accrued=%s paid=%s swept=%s", e.Funded, e.Accrued, e.Paid, e.Swept)
}

// Position is the stake of a user in a pool.
type Position struct {
	Shares sdkmath.Int `json:"shares"`
	// RewardDebt is parallel to the pool reward tokens and scaled by AccRewardPrecision.
	RewardDebt []sdkmath.Int `json:"reward_debt"`
}

// NewPosition returns an empty position for a pool with n reward tokens.
func NewPosition(n int) Position {
	debt := make([]sdkmath.Int, n)
	for i := range debt {
		debt[i] = sdkmath.ZeroInt()
	}
	return Position{
		Shares:     sdkmath.ZeroInt(),
		RewardDebt: debt,
	}
}

// StakedItem is the membership index entry of a staked nft.
type StakedItem struct {
	PoolID uint64         `json:"pool_id"`
	Owner  sdk.AccAddress `json:"owner"`
}
