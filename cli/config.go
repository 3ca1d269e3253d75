package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Default().Write(cmd.OutOrStdout())
		},
	}
}
