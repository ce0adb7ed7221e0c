package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/decimal_math"
	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	"github.com/krazyTry/reward-pool-go/staking"
)

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Inspect configured pools",
	}

	signerCmd := &cobra.Command{
		Use:   "signer",
		Short: "Derive the vault owner of a configured pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			name, _ := cmd.Flags().GetString("name")
			pool, err := cfg.PoolByName(name)
			if err != nil {
				return err
			}
			account, err := pool.AccountKey()
			if err != nil {
				return err
			}
			programID, err := cfg.ProgramID()
			if err != nil {
				return err
			}
			signer, nonce, err := rp.DerivePoolSigner(programID, account)
			if err != nil {
				return err
			}
			log.Debug("derived pool signer", zap.String("pool", account.String()), zap.Uint8("nonce", nonce))
			fmt.Fprintf(cmd.OutOrStdout(), "pool signer %s nonce %d\n", signer, nonce)
			return nil
		},
	}
	signerCmd.Flags().String("name", "", "pool name in the configuration")
	_ = signerCmd.MarkFlagRequired("name")

	cmd.AddCommand(signerCmd, newWatchCmd())
	return cmd
}

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List the staking positions of a wallet in every configured pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			wallet, err := walletFlag(cmd, cfg)
			if err != nil {
				return err
			}
			pools, err := cfg.PoolKeys()
			if err != nil {
				return err
			}
			program, err := programOption(cfg)
			if err != nil {
				return err
			}

			client := rpcClient(cfg)
			rewardPool := staking.NewRewardPoolClient(
				ledger.NewRPCStore(client, rpc.CommitmentConfirmed),
				ledger.NewRPCTokenReader(client, rpc.CommitmentConfirmed),
				staking.WithLogger(log),
				program,
			)
			positions, err := rewardPool.State.GetUserPositions(cmd.Context(), wallet, pools)
			if err != nil {
				return err
			}
			log.Info("resolved positions", zap.String("wallet", wallet.String()), zap.Int("pools", len(pools)), zap.Int("positions", len(positions)))
			for _, p := range positions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s pool %s staked %d owed %d/%d\n",
					p.Address, p.Pool, p.BalanceStaked, p.State.RewardsOwedA, p.State.RewardsOwedB)
			}
			return nil
		},
	}
	cmd.Flags().String("wallet", "", "wallet address, defaults to the key_path keypair")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "List the SPL token holdings of a wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			wallet, err := walletFlag(cmd, cfg)
			if err != nil {
				return err
			}
			reader := ledger.NewRPCTokenReader(rpcClient(cfg), rpc.CommitmentConfirmed)
			holdings, err := reader.Balances(cmd.Context(), wallet)
			if err != nil {
				return err
			}
			for mint, amount := range holdings {
				decimals, err := reader.Decimals(cmd.Context(), mint)
				if err != nil {
					log.Warn("mint decimals", zap.String("mint", mint.String()), zap.Error(err))
					fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", mint, amount)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mint, decimal_math.ToUIAmount(amount, decimals))
			}
			return nil
		},
	}
	cmd.Flags().String("wallet", "", "wallet address, defaults to the key_path keypair")
	return cmd
}
