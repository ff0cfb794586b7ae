package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"houseboard/internal/config"
	"houseboard/internal/server"
)

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logger, err = newLogger(verbose, cfg.Server.DevMode); err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := renderPage(cmd.Context(), cfg, w, logger); err != nil {
		return err
	}
	if outPath != "" {
		logger.Info("page written", zap.String("path", outPath))
	}
	return nil
}

// renderPage 执行一次加载周期并输出静态页面
func renderPage(ctx context.Context, cfg *config.AppConfig, w io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := build(cfg, false, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	c.app.Init(ctx, libraries(cfg), waitOptions(cfg))

	return server.WritePage(w, c.app.View(), server.PageOptions{
		Static:     true,
		LibraryURL: cfg.Map.LibraryURL,
	})
}
