package commands

import (
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/phantom-scope/internal/config"
)

// NewConfigCommand creates the config subcommand.
func NewConfigCommand() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the config file and
PHANTOM_SCOPE_* environment variables. The output is a valid config file.

Examples:
  phantom-scope config
  phantom-scope config --defaults > .phantom-scope.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if !defaults {
				loaded, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				cfg = *loaded
			}

			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults, ignoring file and environment")

	return cmd
}
