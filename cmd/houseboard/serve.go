package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"houseboard/internal/server"
	"houseboard/internal/util"
)

const shutdownTimeout = 5 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logger, err = newLogger(verbose, cfg.Server.DevMode); err != nil {
		return err
	}

	c, err := build(cfg, true, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	logger.Info("data directory", zap.String("path", c.dataDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 首次加载在后台进行，页面先返回加载中的状态
	go c.app.Init(ctx, libraries(cfg), waitOptions(cfg))

	srv := server.NewServer(c.app, c.hub, server.Options{
		DevMode:    cfg.Server.DevMode,
		DataDir:    c.dataDir,
		LibraryURL: cfg.Map.LibraryURL,
	}, logger.Named("http"))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("url", url))
		errCh <- srv.Run(addr)
	}()

	if cfg.Server.OpenBrowser {
		if err := util.OpenBrowser(url); err != nil {
			logger.Warn("could not open browser, visit manually", zap.String("url", url), zap.Error(err))
		}
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
