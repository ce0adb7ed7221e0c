package main

import (
	"context"
	"fmt"
	"io"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/decimal_math"
	"github.com/krazyTry/reward-pool-go/internal/config"
	"github.com/krazyTry/reward-pool-go/internal/metrics"
	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/reward_pool/math"
	"github.com/krazyTry/reward-pool-go/staking"
)

const rewardDecimals = 9

type simulation struct {
	Pools    int
	Stakers  int
	Duration uint64
	AmountA  uint64
	AmountB  uint64
	Stake    uint64
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run funders and stakers against a local ledger and report the payouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			var sim simulation
			sim.Pools, _ = cmd.Flags().GetInt("pools")
			sim.Stakers, _ = cmd.Flags().GetInt("stakers")
			sim.Duration, _ = cmd.Flags().GetUint64("duration")
			for flag, dst := range map[string]*uint64{"amount-a": &sim.AmountA, "amount-b": &sim.AmountB, "stake": &sim.Stake} {
				raw, _ := cmd.Flags().GetString(flag)
				if *dst, err = decimal_math.ParseUIAmount(raw, rewardDecimals); err != nil {
					return err
				}
			}
			return runSimulation(cmd.Context(), cmd.OutOrStdout(), cfg, log, sim)
		},
	}
	cmd.Flags().Int("pools", 10, "number of pools")
	cmd.Flags().Int("stakers", 2, "stakers per pool")
	cmd.Flags().Uint64("duration", 10, "reward duration in seconds")
	cmd.Flags().String("amount-a", "100", "reward A per pool, in tokens")
	cmd.Flags().String("amount-b", "200", "reward B per pool, in tokens")
	cmd.Flags().String("stake", "1", "stake per staker, in tokens")
	return cmd
}

func openStore(cfg config.Config) (ledger.AccountStore, func() error, error) {
	if cfg.LedgerPath == "" {
		return ledger.NewMemoryStore(), func() error { return nil }, nil
	}
	store, err := ledger.OpenLevelDB(cfg.LedgerPath)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func runSimulation(ctx context.Context, out io.Writer, cfg config.Config, log *zap.Logger, sim simulation) error {
	if sim.Pools <= 0 || sim.Stakers <= 0 {
		return errors.Errorf("pools and stakers must be positive, got %d and %d", sim.Pools, sim.Stakers)
	}
	policy, err := math.ParseIdlePolicy(cfg.IdlePolicy)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	program, err := programOption(cfg)
	if err != nil {
		return err
	}
	clock := staking.NewManualClock(staking.SystemClock{}.Now())
	tokens := ledger.NewMemoryTokenLedger()
	client := staking.NewRewardPoolClient(store, tokens,
		staking.WithLogger(log),
		staking.WithMetrics(m),
		staking.WithClock(clock),
		staking.WithIdlePolicy(policy),
		program,
	)

	fundedA, err := math.CheckedMulU64(sim.AmountA, uint64(sim.Pools))
	if err != nil {
		return errors.Wrap(err, "total reward A")
	}
	fundedB, err := math.CheckedMulU64(sim.AmountB, uint64(sim.Pools))
	if err != nil {
		return errors.Wrap(err, "total reward B")
	}
	staked, err := math.CheckedMulU64(sim.Stake, uint64(sim.Pools))
	if err != nil {
		return errors.Wrap(err, "total stake")
	}

	authority, stakingMint, mintA, mintB := solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey()
	funder := solanago.NewWallet().PublicKey()
	for _, mint := range []solanago.PublicKey{authority, stakingMint, mintA, mintB} {
		if err := tokens.CreateMint(ctx, mint, rewardDecimals); err != nil {
			return err
		}
	}
	if err := tokens.MintTo(ctx, authority, funder, 1); err != nil {
		return err
	}
	if err := tokens.MintTo(ctx, mintA, funder, fundedA); err != nil {
		return err
	}
	if err := tokens.MintTo(ctx, mintB, funder, fundedB); err != nil {
		return err
	}
	_, err = client.Pool.InitializeProgram(ctx, funder, authority)
	if errors.Is(err, rp.ErrAlreadyInitialized) {
		// a persisted ledger keeps the authority mint of its first run
		existing, err := client.State.GetProgramConfig(ctx)
		if err != nil {
			return err
		}
		if err := tokens.CreateMint(ctx, existing.AuthorityMint, 0); err != nil {
			return err
		}
		if err := tokens.MintTo(ctx, existing.AuthorityMint, funder, 1); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	pools := make([]solanago.PublicKey, sim.Pools)
	for i := range pools {
		pools[i] = solanago.NewWallet().PublicKey()
		state, err := client.Pool.InitializePool(ctx, staking.InitializePoolParams{
			Funder:        funder,
			Pool:          pools[i],
			StakingMint:   stakingMint,
			RewardAMint:   mintA,
			RewardBMint:   mintB,
			RewardAmountA: sim.AmountA,
			RewardAmountB: sim.AmountB,
			Duration:      sim.Duration,
		})
		if err != nil {
			return err
		}
		writePool(out, pools[i], state, rewardDecimals, rewardDecimals)
	}

	stakers := make([]solanago.PublicKey, sim.Stakers)
	for i := range stakers {
		stakers[i] = solanago.NewWallet().PublicKey()
		if err := tokens.MintTo(ctx, stakingMint, stakers[i], staked); err != nil {
			return err
		}
		for _, pool := range pools {
			if _, err := client.Position.CreateUserStakingAccount(ctx, stakers[i], pool); err != nil {
				return err
			}
			if _, err := client.Position.Stake(ctx, stakers[i], pool, sim.Stake); err != nil {
				return err
			}
		}
	}

	clock.Advance(int64(sim.Duration))

	for _, staker := range stakers {
		var totalA, totalB uint64
		for _, pool := range pools {
			res, err := client.Position.Harvest(ctx, staker, pool)
			if err != nil {
				return err
			}
			totalA += res.AmountA
			totalB += res.AmountB
		}
		positions, err := client.State.GetUserPositions(ctx, staker, pools)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "staker %s positions %d harvested A %s B %s\n", staker, len(positions),
			decimal_math.ToUIAmount(totalA, rewardDecimals), decimal_math.ToUIAmount(totalB, rewardDecimals))
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if mf.GetName() != "reward_pool_operations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := metric.GetLabel()
			fmt.Fprintf(out, "%s %s=%s %s=%s %.0f\n", mf.GetName(),
				labels[0].GetName(), labels[0].GetValue(), labels[1].GetName(), labels[1].GetValue(),
				metric.GetCounter().GetValue())
		}
	}
	return nil
}
