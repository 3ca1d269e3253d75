package cli

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/config"
	"github.com/ByLCY/plakat/host"
	canvasrenderer "github.com/ByLCY/plakat/renderer/canvas"
	svgrenderer "github.com/ByLCY/plakat/renderer/svg"
	"github.com/ByLCY/plakat/tui"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		preview  string
		catalog  string
		debounce time.Duration

		applyPaper func(*config.File)
	)
	cmd := &cobra.Command{
		Use:   "watch [text...]",
		Short: "Edit text interactively and regenerate the poster while typing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			applyPaper(&cfg)
			if !cmd.Flags().Changed("debounce") {
				debounce = cfg.Server.Debounce
			}
			if preview == "" {
				preview = filepath.Join(filepath.Dir(cfg.Render.Out), "preview.svg")
			}

			// The terminal belongs to the editor; engine logs are dropped.
			quiet := log.New(io.Discard)
			parts, err := buildEngine(cfg, catalog, 0, quiet)
			if err != nil {
				return err
			}
			m := tui.New(ctx, tui.Options{
				Engine:      parts.engine,
				Preview:     svgrenderer.New(),
				PreviewPath: preview,
				Print: canvasrenderer.NewRenderer(canvasrenderer.Options{
					Format:  canvasrenderer.FormatPDF,
					Metrics: parts.metrics,
				}),
				Printer:  host.NewPrinter(cfg.Render.PrintDir, quiet),
				Debounce: debounce,
				Text:     strings.Join(args, " "),
			})
			defer m.Close()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&preview, "preview", "", "preview SVG path (default next to the configured output)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "shape catalog (.shapes) file")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "regeneration debounce window")
	applyPaper = paperFlags(cmd)
	return cmd
}
