package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"houseboard/internal/config"
)

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		exeDir, err := config.GetExeDir()
		if err != nil {
			exeDir = "."
		}
		path = filepath.Join(exeDir, "config.toml")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := writeConfig(path, cfg, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config written: %s\n", path)
	return nil
}

// writeConfig 写出配置；文件已存在且未指定 force 时报错
func writeConfig(path string, cfg *config.AppConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
