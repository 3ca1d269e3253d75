package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/config"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) { version = v }

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	cfg        config.File
}

// Execute runs the plakat CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "plakat",
		Short:        "plakat turns short text into generative typographic posters",
		Long:         `plakat composes distorted, duplicated and rotated typography with geometric shapes into a poster sized for a fixed-width, variable-height print medium.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.configPath != "" {
				logger.Debug("config loaded", "path", a.configPath)
			}
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("plakat %s\n", version))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newShapesCmd(a))
	root.AddCommand(newConfigCmd())

	return root
}
