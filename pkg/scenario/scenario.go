// Package scenario replays scripted farm activity on a simulated ledger.
package scenario

import (
	"bytes"
	"io"
	"os"

	sdkmath "cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto/tmhash"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// OwnerAccount is the reserved account name of the module owner.
const OwnerAccount = "owner"

// Actions supported by scenario steps.
const (
	ActionAddPool            = "add_pool"
	ActionReconfigurePool    = "reconfigure_pool"
	ActionDeposit            = "deposit"
	ActionWithdraw           = "withdraw"
	ActionHarvest            = "harvest"
	ActionEmergencyWithdraw  = "emergency_withdraw"
	ActionSweepUnallocated   = "sweep_unallocated"
	ActionSweepPoolReward    = "sweep_pool_reward"
	ActionSweepMultiplePools = "sweep_multiple_pools"
	ActionUnlock             = "unlock"
	ActionLock               = "lock"
	ActionUpdateParams       = "update_params"
	ActionTransfer           = "transfer"
)

var actions = []string{
	ActionAddPool,
	ActionReconfigurePool,
	ActionDeposit,
	ActionWithdraw,
	ActionHarvest,
	ActionEmergencyWithdraw,
	ActionSweepUnallocated,
	ActionSweepPoolReward,
	ActionSweepMultiplePools,
	ActionUnlock,
	ActionLock,
	ActionUpdateParams,
	ActionTransfer,
}

// Scenario is a scripted sequence of farm operations.
type Scenario struct {
	Name      string    `yaml:"name"`
	StartTime int64     `yaml:"start_time"`
	Operator  string    `yaml:"operator"`
	Classes   []string  `yaml:"classes"`
	Accounts  []Account `yaml:"accounts"`
	Steps     []Step    `yaml:"steps"`
}

// Account is a named participant with its initial holdings.
type Account struct {
	Name     string     `yaml:"name"`
	Balances string     `yaml:"balances"`
	Items    []ItemMint `yaml:"items"`
}

// ItemMint lists the nfts of a class minted to an account.
type ItemMint struct {
	Class string   `yaml:"class"`
	IDs   []string `yaml:"ids"`
}

// Reward is a reward token of a pool, the multiplier is a decimal like "1" or "0.5".
type Reward struct {
	Denom      string `yaml:"denom"`
	Multiplier string `yaml:"multiplier"`
}

// Step is a single operation executed at a block time.
type Step struct {
	Time   int64  `yaml:"time"`
	Action string `yaml:"action"`
	Sender string `yaml:"sender"`

	Pool      uint64   `yaml:"pool"`
	Pools     []uint64 `yaml:"pools"`
	Items     []string `yaml:"items"`
	Amount    string   `yaml:"amount"`
	Denoms    []string `yaml:"denoms"`
	Operation string   `yaml:"operation"`
	To        string   `yaml:"to"`

	StakeClass      string   `yaml:"stake_class"`
	StakeDenom      string   `yaml:"stake_denom"`
	Rewards         []Reward `yaml:"rewards"`
	Start           int64    `yaml:"start"`
	Expiration      int64    `yaml:"expiration"`
	RewardPerSecond string   `yaml:"reward_per_second"`

	NewOperator string `yaml:"new_operator"`

	// ExpectError is a substring of the expected failure, the step passes only when it fails with it.
	ExpectError string `yaml:"expect_error"`
}

// Load reads a scenario file.
func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "opening scenario %s", path)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a scenario and rejects unknown fields.
func Parse(r io.Reader) (Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return Scenario{}, errors.Wrap(err, "decoding scenario")
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// ParseBytes decodes a scenario from memory.
func ParseBytes(bz []byte) (Scenario, error) {
	return Parse(bytes.NewReader(bz))
}

// Validate checks that the scenario is self-consistent before it is replayed.
func (s Scenario) Validate() error {
	if s.StartTime <= 0 {
		return errors.New("start_time must be positive")
	}

	names := map[string]bool{OwnerAccount: true}
	for _, account := range s.Accounts {
		if account.Name == "" || names[account.Name] {
			return errors.Errorf("invalid or duplicate account name %q", account.Name)
		}
		names[account.Name] = true
		if _, err := sdk.ParseCoinsNormalized(account.Balances); err != nil {
			return errors.Wrapf(err, "account %s balances", account.Name)
		}
	}
	if s.Operator != "" && !names[s.Operator] {
		return errors.Errorf("unknown operator account %q", s.Operator)
	}

	last := s.StartTime
	for i, step := range s.Steps {
		if step.Time != 0 && step.Time < last {
			return errors.Errorf("step %d: time %d is before %d", i, step.Time, last)
		}
		if step.Time != 0 {
			last = step.Time
		}
		if !lo.Contains(actions, step.Action) {
			return errors.Errorf("step %d: unknown action %q", i, step.Action)
		}
		if !names[step.Sender] {
			return errors.Errorf("step %d: unknown sender %q", i, step.Sender)
		}
		if step.To != "" && !names[step.To] {
			return errors.Errorf("step %d: unknown recipient %q", i, step.To)
		}
		if step.NewOperator != "" && !names[step.NewOperator] {
			return errors.Errorf("step %d: unknown operator %q", i, step.NewOperator)
		}
	}
	return nil
}

// AccountAddress derives the deterministic address of a named account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte("farmsim/" + name)))
}

// StakeKind returns the stake kind of an add_pool step.
func (s Step) StakeKind() types.StakeKind {
	if s.StakeDenom != "" {
		return types.NativeStakeKind(s.StakeDenom)
	}
	return types.NFTStakeKind(s.StakeClass)
}

// RewardTokens converts the decimal multipliers into fixed point.
func (s Step) RewardTokens() ([]types.RewardToken, error) {
	tokens := make([]types.RewardToken, 0, len(s.Rewards))
	for _, reward := range s.Rewards {
		multiplier, err := sdkmath.LegacyNewDecFromStr(reward.Multiplier)
		if err != nil {
			return nil, errors.Wrapf(err, "multiplier of %s", reward.Denom)
		}
		// LegacyDec carries 18 decimals, the same base as MultiplierPrecision.
		tokens = append(tokens, types.RewardToken{
			Denom:      reward.Denom,
			Multiplier: sdkmath.NewIntFromBigInt(multiplier.BigInt()),
		})
	}
	return tokens, nil
}

// IntAmount parses the amount of native deposits and withdrawals.
func (s Step) IntAmount() (sdkmath.Int, error) {
	if s.Amount == "" {
		return sdkmath.Int{}, nil
	}
	amount, ok := sdkmath.NewIntFromString(s.Amount)
	if !ok {
		return sdkmath.Int{}, errors.Errorf("invalid amount %q", s.Amount)
	}
	return amount, nil
}

// CoinsAmount parses the amount of sweeps and transfers.
func (s Step) CoinsAmount() (sdk.Coins, error) {
	coins, err := sdk.ParseCoinsNormalized(s.Amount)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid coins %q", s.Amount)
	}
	return coins, nil
}

// RatePerSecond parses the reward per second.
func (s Step) RatePerSecond() (sdkmath.Int, error) {
	rate, ok := sdkmath.NewIntFromString(s.RewardPerSecond)
	if !ok {
		return sdkmath.Int{}, errors.Errorf("invalid reward_per_second %q", s.RewardPerSecond)
	}
	return rate, nil
}
