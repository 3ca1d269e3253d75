package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/plakat/config"
	"github.com/ByLCY/plakat/renderer"
	canvasrenderer "github.com/ByLCY/plakat/renderer/canvas"
	svgrenderer "github.com/ByLCY/plakat/renderer/svg"
	"github.com/ByLCY/plakat/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		format   string
		debounce time.Duration
		catalog  string

		applyPaper func(*config.File)
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve posters over HTTP with debounced regeneration per session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := a.cfg
			applyPaper(&cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("debounce") {
				cfg.Server.Debounce = debounce
			}

			parts, err := buildEngine(cfg, catalog, 0, logger)
			if err != nil {
				return err
			}
			var r renderer.Renderer = svgrenderer.New()
			if format != "" {
				f, err := canvasrenderer.ParseFormat(format)
				if err != nil {
					return err
				}
				r = canvasrenderer.NewRenderer(canvasrenderer.Options{Format: f, DPMM: cfg.Render.DPMM, Metrics: parts.metrics})
			}

			srv := server.New(parts.engine, r, server.Options{Debounce: cfg.Server.Debounce, Logger: logger})
			defer srv.Close()
			return listen(ctx, cfg.Server.Addr, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "poster format: native SVG (default), pdf, png, svg")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "regeneration debounce window")
	cmd.Flags().StringVar(&catalog, "catalog", "", "shape catalog (.shapes) file")
	applyPaper = paperFlags(cmd)
	return cmd
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func listen(ctx context.Context, addr string, h http.Handler) error {
	logger := loggerFromContext(ctx)
	hs := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("HTTP 服务异常退出: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("关闭 HTTP 服务失败: %w", err)
	}
	logger.Info("server stopped")
	return ctx.Err()
}
