// Package commands implements the phantom-scope CLI subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/phantom-scope/internal/config"
	"github.com/ZanzyTHEbar/phantom-scope/internal/version"
)

const configFlag = "config"

// NewRootCommand assembles the CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phantom-scope",
		Short: "Phantom Scope - developer behavioral profiles",
		Long: `Phantom Scope scores already-collected developer signals offline.

Commands:
  score     Analyze a ProfileSignals JSON document
  config    Print the effective configuration as YAML
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(configFlag, "", "path to config file (default: ./.phantom-scope.yaml or ~/.phantom-scope.yaml)")

	rootCmd.AddCommand(NewScoreCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phantom-scope %s\n", version.String())
		},
	}
}

// loadConfig reads the file named by the inherited --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("read --%s: %w", configFlag, err)
	}
	return config.LoadConfig(path)
}
