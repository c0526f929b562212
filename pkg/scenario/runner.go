package scenario

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/coin98/baryon-farm/pkg/ledgersim"
	"github.com/coin98/baryon-farm/x/nftfarm/types"
)

// ModuleAccount is the name the farm custody account is reported under.
const ModuleAccount = "nftfarm"

// Report is the outcome of a replayed scenario.
type Report struct {
	Name     string       `json:"name"`
	Passed   bool         `json:"passed"`
	Steps    []StepResult `json:"steps"`
	Balances []Balance    `json:"balances"`
	Pools    []types.Pool `json:"pools"`
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index     int    `json:"index"`
	Time      int64  `json:"time"`
	Action    string `json:"action"`
	Sender    string `json:"sender"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	Invariant string `json:"invariant,omitempty"`
	Passed    bool   `json:"passed"`
}

// Balance is the final balance of an account.
type Balance struct {
	Account string `json:"account"`
	Address string `json:"address"`
	Coins   string `json:"coins"`
}

// Runner replays scenarios.
type Runner struct {
	logger log.Logger
}

// NewRunner returns a runner logging to the logger.
func NewRunner(logger log.Logger) *Runner {
	return &Runner{
		logger: logger.With("module", "scenario"),
	}
}

// Run replays the scenario on a fresh ledger. Failing steps are recorded in the report, an error is returned only
// when the ledger cannot be set up.
func (r *Runner) Run(s Scenario) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}

	genesis := types.DefaultGenesisState()
	if s.Operator != "" {
		genesis.Params.Operator = AccountAddress(s.Operator).String()
	}
	ledger := ledgersim.New(
		ledgersim.WithStartTime(time.Unix(s.StartTime, 0).UTC()),
		ledgersim.WithCustomLogger(r.logger),
		ledgersim.WithOwner(AccountAddress(OwnerAccount)),
		ledgersim.WithGenesis(genesis),
	)
	if err := r.setup(ledger, s); err != nil {
		return Report{}, err
	}

	report := Report{
		Name:   s.Name,
		Passed: true,
	}
	for i, step := range s.Steps {
		if step.Time != 0 && step.Time != ledger.BlockTime().Unix() {
			ledger.SetBlockTime(time.Unix(step.Time, 0).UTC())
		}
		ctx := ledger.Context()

		result, err := r.execute(ctx, ledger, step)
		res := StepResult{
			Index:  i,
			Time:   ledger.BlockTime().Unix(),
			Action: step.Action,
			Sender: step.Sender,
			Result: result,
		}
		switch {
		case err != nil:
			res.Error = err.Error()
			res.Passed = step.ExpectError != "" && strings.Contains(res.Error, step.ExpectError)
		default:
			res.Passed = step.ExpectError == ""
		}
		if msg, broken := ledger.CheckInvariants(ctx); broken {
			res.Invariant = msg
			res.Passed = false
		}
		ledger.Commit()

		r.logger.Debug("Step executed", "index", i, "action", step.Action, "result", result, "error", res.Error)
		if !res.Passed {
			r.logger.Info("Step did not pass", "index", i, "action", step.Action, "error", res.Error)
			report.Passed = false
		}
		report.Steps = append(report.Steps, res)
	}

	ctx := ledger.Context()
	names := append([]string{OwnerAccount}, lo.Map(s.Accounts, func(a Account, _ int) string { return a.Name })...)
	for _, name := range names {
		addr := AccountAddress(name)
		report.Balances = append(report.Balances, Balance{
			Account: name,
			Address: addr.String(),
			Coins:   ledger.Bank.SpendableCoins(ctx, addr).String(),
		})
	}
	report.Balances = append(report.Balances, Balance{
		Account: ModuleAccount,
		Address: ledger.ModuleAddress().String(),
		Coins:   ledger.Bank.SpendableCoins(ctx, ledger.ModuleAddress()).String(),
	})

	pools, err := ledger.QueryServer().Pools(ctx, &types.QueryPoolsRequest{})
	if err != nil {
		return Report{}, err
	}
	report.Pools = pools.Pools

	return report, nil
}

func (r *Runner) setup(ledger *ledgersim.Ledger, s Scenario) error {
	ctx := ledger.Context()
	for _, classID := range lo.Uniq(s.Classes) {
		if err := ledger.NFT.CreateClass(ctx, classID); err != nil {
			return errors.Wrapf(err, "creating class %s", classID)
		}
	}
	for _, account := range s.Accounts {
		addr := AccountAddress(account.Name)
		balances, err := sdk.ParseCoinsNormalized(account.Balances)
		if err != nil {
			return errors.Wrapf(err, "account %s balances", account.Name)
		}
		if err := ledger.FundAccount(ctx, addr, balances); err != nil {
			return errors.Wrapf(err, "funding account %s", account.Name)
		}
		for _, mint := range account.Items {
			for _, id := range mint.IDs {
				if err := ledger.NFT.MintTo(ctx, mint.Class, id, addr); err != nil {
					return errors.Wrapf(err, "minting %s/%s to %s", mint.Class, id, account.Name)
				}
			}
		}
	}
	ledger.Commit()
	return nil
}

//nolint:gocyclo // one case per action
func (r *Runner) execute(ctx sdk.Context, ledger *ledgersim.Ledger, step Step) (string, error) {
	ms := ledger.MsgServer()
	sender := AccountAddress(step.Sender).String()

	switch step.Action {
	case ActionAddPool:
		tokens, err := step.RewardTokens()
		if err != nil {
			return "", err
		}
		rate, err := step.RatePerSecond()
		if err != nil {
			return "", err
		}
		res, err := ms.AddPool(ctx, &types.MsgAddPool{
			Sender:          sender,
			StakeKind:       step.StakeKind(),
			RewardTokens:    tokens,
			StartTime:       step.Start,
			ExpirationTime:  step.Expiration,
			RewardPerSecond: rate,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("pool %d", res.PoolID), nil
	case ActionReconfigurePool:
		rate, err := step.RatePerSecond()
		if err != nil {
			return "", err
		}
		_, err = ms.ReconfigurePool(ctx, &types.MsgReconfigurePool{
			Authority:       sender,
			PoolID:          step.Pool,
			StartTime:       step.Start,
			ExpirationTime:  step.Expiration,
			RewardPerSecond: rate,
		})
		return "", err
	case ActionDeposit, ActionWithdraw:
		amount, err := step.IntAmount()
		if err != nil {
			return "", err
		}
		var res *types.MsgRewardResponse
		if step.Action == ActionDeposit {
			res, err = ms.Deposit(ctx, &types.MsgDeposit{
				Sender: sender, PoolID: step.Pool, ItemIDs: step.Items, Amount: amount,
			})
		} else {
			res, err = ms.Withdraw(ctx, &types.MsgWithdraw{
				Sender: sender, PoolID: step.Pool, ItemIDs: step.Items, Amount: amount,
			})
		}
		if err != nil {
			return "", err
		}
		return res.Reward.String(), nil
	case ActionHarvest:
		res, err := ms.Harvest(ctx, &types.MsgHarvest{Sender: sender, PoolID: step.Pool})
		if err != nil {
			return "", err
		}
		return res.Reward.String(), nil
	case ActionEmergencyWithdraw:
		_, err := ms.EmergencyWithdraw(ctx, &types.MsgEmergencyWithdraw{Sender: sender, PoolID: step.Pool})
		return "", err
	case ActionSweepUnallocated:
		res, err := ms.SweepUnallocated(ctx, &types.MsgSweepUnallocated{Sender: sender, Denoms: step.Denoms})
		if err != nil {
			return "", err
		}
		return res.Amount.String(), nil
	case ActionSweepPoolReward:
		amount, err := step.CoinsAmount()
		if err != nil {
			return "", err
		}
		res, err := ms.SweepPoolReward(ctx, &types.MsgSweepPoolReward{Sender: sender, PoolID: step.Pool, Amount: amount})
		if err != nil {
			return "", err
		}
		return res.Amount.String(), nil
	case ActionSweepMultiplePools:
		res, err := ms.SweepMultiplePools(ctx, &types.MsgSweepMultiplePools{Authority: sender, PoolIDs: step.Pools})
		if err != nil {
			return "", err
		}
		return res.Amount.String(), nil
	case ActionUnlock:
		_, err := ms.UnlockOperation(ctx, &types.MsgUnlockOperation{Authority: sender, Operation: step.Operation})
		return "", err
	case ActionLock:
		_, err := ms.LockOperation(ctx, &types.MsgLockOperation{Authority: sender, Operation: step.Operation})
		return "", err
	case ActionUpdateParams:
		params := types.DefaultParams()
		if step.NewOperator != "" {
			params.Operator = AccountAddress(step.NewOperator).String()
		}
		_, err := ms.UpdateParams(ctx, &types.MsgUpdateParams{Authority: sender, Params: params})
		return "", err
	case ActionTransfer:
		amount, err := step.CoinsAmount()
		if err != nil {
			return "", err
		}
		to := ledger.ModuleAddress()
		if step.To != "" {
			to = AccountAddress(step.To)
		}
		cacheCtx, write := ctx.CacheContext()
		if err := ledger.Bank.SendCoins(cacheCtx, AccountAddress(step.Sender), to, amount); err != nil {
			return "", err
		}
		write()
		return amount.String(), nil
	default:
		return "", errors.Errorf("unknown action %q", step.Action)
	}
}
