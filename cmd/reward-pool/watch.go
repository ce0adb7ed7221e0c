package main

import (
	"fmt"
	"io"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/decimal_math"
	"github.com/krazyTry/reward-pool-go/ledger"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream state changes of a configured pool over the websocket RPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			name, _ := cmd.Flags().GetString("name")
			limit, _ := cmd.Flags().GetInt("updates")
			pool, err := cfg.PoolByName(name)
			if err != nil {
				return err
			}
			account, err := pool.AccountKey()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conn, err := ws.Connect(ctx, cfg.WSRPCURL)
			if err != nil {
				return errors.Wrapf(err, "connect %s", cfg.WSRPCURL)
			}
			defer conn.Close()

			sub, err := conn.AccountSubscribe(account, rpc.CommitmentConfirmed)
			if err != nil {
				return errors.Wrapf(err, "subscribe %s", account)
			}
			defer sub.Unsubscribe()
			log.Info("watching pool", zap.String("pool", account.String()), zap.String("ws", cfg.WSRPCURL))

			reader := ledger.NewRPCTokenReader(rpcClient(cfg), rpc.CommitmentConfirmed)
			var decA, decB uint8
			for seen := 0; limit <= 0 || seen < limit; seen++ {
				res, err := sub.Recv(ctx)
				if err != nil {
					return err
				}
				if res.Value == nil || res.Value.Data == nil {
					log.Warn("pool account closed", zap.String("pool", account.String()))
					return nil
				}
				state, err := rp.ParseAccount_Pool(res.Value.Data.GetBinary())
				if err != nil {
					return err
				}
				if seen == 0 {
					decA = mintDecimals(cmd, reader, log, state.RewardAMint)
					decB = mintDecimals(cmd, reader, log, state.RewardBMint)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "slot %d ", res.Context.Slot)
				writePool(cmd.OutOrStdout(), account, state, decA, decB)
			}
			return nil
		},
	}
	cmd.Flags().String("name", "", "pool name in the configuration")
	cmd.Flags().Int("updates", 0, "stop after this many updates, 0 streams until interrupted")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func mintDecimals(cmd *cobra.Command, reader *ledger.RPCTokenReader, log *zap.Logger, mint solanago.PublicKey) uint8 {
	decimals, err := reader.Decimals(cmd.Context(), mint)
	if err != nil {
		log.Warn("mint decimals, printing raw amounts", zap.String("mint", mint.String()), zap.Error(err))
		return 0
	}
	return decimals
}

// writePool prints one line summarizing the emission and stake of a pool.
func writePool(w io.Writer, addr solanago.PublicKey, pool *rp.Pool, decA, decB uint8) {
	fmt.Fprintf(w, "pool %s staked %d users %d rate A %s/s B %s/s finish %d\n",
		addr, pool.TotalStaked, pool.UserStakeCount,
		decimal_math.RatePerSecond(pool.RewardRateA, decA),
		decimal_math.RatePerSecond(pool.RewardRateB, decB),
		pool.PeriodFinish)
}
