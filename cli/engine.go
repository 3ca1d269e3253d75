package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/catalog"
	"github.com/ByLCY/plakat/config"
	"github.com/ByLCY/plakat/host"
	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/random"
	canvasrenderer "github.com/ByLCY/plakat/renderer/canvas"
)

// loadCatalog reads a .shapes file, or the embedded catalog when path is empty.
func loadCatalog(path string) ([]layout.ShapeTemplate, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开形状目录 %s: %w", path, err)
	}
	defer f.Close()
	shapes, err := catalog.Load(f)
	if err != nil {
		return nil, fmt.Errorf("解析形状目录 %s 失败: %w", path, err)
	}
	return shapes, nil
}

// engineParts bundles the engine with the collaborators it was built from,
// so render paths can share the same font metrics.
type engineParts struct {
	engine  *layout.Engine
	metrics *canvasrenderer.Metrics
	paper   *host.Paper
}

// buildEngine wires catalog, font metrics, paper host and RNG into an engine.
// seed 0 uses the system entropy source.
func buildEngine(cfg config.File, catalogPath string, seed uint64, logger *log.Logger) (*engineParts, error) {
	if catalogPath == "" {
		catalogPath = cfg.Catalog
	}
	shapes, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	metrics := canvasrenderer.NewMetrics(cfg.Render.FontPath)
	paper := host.NewPaper(cfg.Paper)

	var rng random.Rand
	if seed != 0 {
		rng = random.Seeded(seed)
	}
	engine, err := layout.New(layout.Options{
		Measurer: metrics,
		Catalog:  shapes,
		Rand:     rng,
		Tuning:   cfg.Tuning,
		Logger:   logger,
		Host:     paper,
		Paper:    cfg.Paper,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("engine ready", "shapes", len(shapes), "paper", fmt.Sprintf("%gmm", cfg.Paper.WidthMM))
	return &engineParts{engine: engine, metrics: metrics, paper: paper}, nil
}

// paperFlags registers --paper-width and --min-height on cmd and returns a
// function that applies the given values to a configuration.
func paperFlags(cmd *cobra.Command) func(*config.File) {
	var width, minHeight layout.Length
	cmd.Flags().Var(&width, "paper-width", "paper width, e.g. 80mm or 3.15in")
	cmd.Flags().Var(&minHeight, "min-height", "minimum paper height, e.g. 150mm")
	return func(cfg *config.File) {
		if cmd.Flags().Changed("paper-width") {
			cfg.Paper.WidthMM = width.ToMM()
		}
		if cmd.Flags().Changed("min-height") {
			cfg.Paper.MinHeightMM = minHeight.ToMM()
		}
	}
}
