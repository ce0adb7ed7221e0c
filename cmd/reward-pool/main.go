package main

import (
	"context"
	"os"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/reward-pool-go/internal/config"
	"github.com/krazyTry/reward-pool-go/internal/logger"
	"github.com/krazyTry/reward-pool-go/staking"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "reward-pool",
		Short:        "Dual reward staking pool tooling",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc-url", "", "HTTP RPC URL")
	flags.String("ws-url", "", "websocket RPC URL")
	flags.String("key-path", "", "payer keypair file")
	flags.String("ledger", "", "LevelDB directory of the local ledger, empty for memory")
	flags.String("idle-policy", "", "emission while nothing is staked (forfeit, rollover)")
	flags.Bool("debug", false, "debug logging")
	flags.String("log-file", "", "also log to this file")

	root.AddCommand(newConfigCmd(), newPoolCmd(), newPositionsCmd(), newBalanceCmd(), newSimulateCmd())
	return root
}

// setup loads the configuration and builds the logger every command shares.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.NewLogger(logger.Config{Debug: cfg.DebugLog, LogFile: cfg.LogFile})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func rpcClient(cfg config.Config) *rpc.Client {
	return rpc.New(cfg.HTTPRPCURL)
}

// programOption points the client at the configured deployment.
func programOption(cfg config.Config) (staking.Option, error) {
	id, err := cfg.ProgramID()
	if err != nil {
		return nil, errors.Wrap(err, "program id")
	}
	return staking.WithProgramID(id), nil
}

// walletFlag parses --wallet, falling back to the keypair at key_path.
func walletFlag(cmd *cobra.Command, cfg config.Config) (solanago.PublicKey, error) {
	raw, _ := cmd.Flags().GetString("wallet")
	if raw == "" {
		return cfg.Wallet()
	}
	return solanago.PublicKeyFromBase58(raw)
}
