package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/config"
	"github.com/ByLCY/plakat/host"
	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/renderer"
	canvasrenderer "github.com/ByLCY/plakat/renderer/canvas"
	svgrenderer "github.com/ByLCY/plakat/renderer/svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file, "-" for stdout
	format  string // pdf, png or svg
	native  bool   // write SVG directly instead of through tdewolff/canvas
	catalog string // .shapes file overriding the embedded catalog
	font    string // font file overriding the embedded Go fonts
	seed    uint64 // fixed RNG seed, 0 for system entropy
	debug   string // scene JSON output path
	print   bool   // spool a PDF copy to the print directory
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		opts       renderOpts
		applyPaper func(*config.File)
	)

	cmd := &cobra.Command{
		Use:   "render [text...]",
		Short: "Render one poster from text (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			cfg := a.cfg
			applyPaper(&cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Render.Format = opts.format
			}
			if cmd.Flags().Changed("font") {
				cfg.Render.FontPath = opts.font
			}
			if !cmd.Flags().Changed("output") {
				opts.output = withExt(cfg.Render.Out, cfg.Render.Format)
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cfg, text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pdf (default), png, svg")
	cmd.Flags().BoolVar(&opts.native, "native", false, "write SVG with transform attributes instead of flattened paths")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "shape catalog (.shapes) file")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file replacing the embedded Go fonts")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "fixed random seed for reproducible posters")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "write the scene as JSON to this path")
	cmd.Flags().BoolVar(&opts.print, "print", false, "also spool a PDF to the print directory")
	applyPaper = paperFlags(cmd)

	return cmd
}

func runRender(ctx context.Context, stdout io.Writer, cfg config.File, text string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	format, err := canvasrenderer.ParseFormat(cfg.Render.Format)
	if err != nil {
		return err
	}
	parts, err := buildEngine(cfg, opts.catalog, opts.seed, logger)
	if err != nil {
		return err
	}

	scene, dims, err := parts.engine.Compose(ctx, text)
	if err != nil {
		return fmt.Errorf("生成海报失败: %w", err)
	}
	logger.Debug("scene composed", "id", scene.ID, "recipe", scene.Recipe, "width", dims.WidthPx, "height", dims.HeightPx)

	var r renderer.Renderer
	if opts.native && format == canvasrenderer.FormatSVG {
		r = svgrenderer.New()
	} else {
		r = canvasrenderer.NewRenderer(canvasrenderer.Options{
			Format:  format,
			DPMM:    cfg.Render.DPMM,
			Title:   text,
			Metrics: parts.metrics,
		})
	}
	doc, err := r.Render(scene)
	if err != nil {
		return fmt.Errorf("渲染海报失败: %w", err)
	}
	if err := writeOutput(stdout, opts.output, doc); err != nil {
		return err
	}

	if opts.debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(scene, opts.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if opts.print {
		if err := printScene(ctx, cfg, parts, scene, text); err != nil {
			return err
		}
	}

	recipe := scene.Recipe
	if recipe == "" {
		recipe = "placeholder"
	}
	prog.done(fmt.Sprintf("Rendered %s (%s, %d primitives)", opts.output, recipe, scene.Len()))
	return nil
}

// printScene renders a PDF copy and waits until the printer has spooled it.
func printScene(ctx context.Context, cfg config.File, parts *engineParts, scene *layout.Scene, title string) error {
	pdf := canvasrenderer.NewRenderer(canvasrenderer.Options{
		Format:  canvasrenderer.FormatPDF,
		Title:   title,
		Metrics: parts.metrics,
	})
	doc, err := pdf.Render(scene)
	if err != nil {
		return fmt.Errorf("渲染打印文件失败: %w", err)
	}
	printer := host.NewPrinter(cfg.Render.PrintDir, loggerFromContext(ctx))
	printer.Print(ctx, doc)
	printer.Wait()
	return nil
}

// readText joins args, or reads stdin when args are empty or "-".
func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("读取标准输入失败: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func writeOutput(stdout io.Writer, path string, doc []byte) error {
	if path == "-" {
		_, err := stdout.Write(doc)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

// withExt replaces the extension of path with the format name.
func withExt(path, format string) string {
	if path == "" {
		path = "output/poster"
	}
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = string(canvasrenderer.FormatPDF)
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + f
}
