package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krazyTry/reward-pool-go/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and convert configuration files",
	}

	newCmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Write a default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			if err := config.Default().Save(args[0], asJSON); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	newCmd.Flags().Bool("json", false, "write JSON instead of YAML")

	exportCmd := &cobra.Command{
		Use:   "export-json <path>",
		Short: "Write the loaded configuration as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Save(args[0], true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(newCmd, exportCmd)
	return cmd
}
