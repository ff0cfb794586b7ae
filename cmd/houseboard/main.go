package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// 全局参数
	configPath string
	verbose    bool

	// serve 参数
	port        int
	devMode     bool
	dataDir     string
	openBrowser bool

	// render 参数
	outPath string

	// init 参数
	force bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "houseboard",
	Short: "Property listings dashboard",
	Long: `houseboard serves a single-page dashboard for a property listings workbook:
a sortable table, a map of the listings and the insight cards of a strategy report.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run one load cycle and write the dashboard page as static HTML",
	RunE:  runRender,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to config.toml",
	RunE:  runInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (overrides config)")

	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (only when config.toml does not set one)")
		cmd.Flags().BoolVar(&devMode, "dev", false, "Development mode")
		cmd.Flags().BoolVar(&openBrowser, "open", false, "Open the dashboard in a browser")
	}

	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(serveCmd)
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
