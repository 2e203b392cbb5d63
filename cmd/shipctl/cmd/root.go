// Package cmd provides the CLI commands for shipctl.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"shipdesk/internal/app"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/logger"

	"github.com/spf13/cobra"
)

var (
	configDir string
	verbose   bool

	cfg *config.AppConfig
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shipctl",
	Short: "Operate the shipdesk quoting and tracking service",
	Long: `shipctl runs shipdesk operations from the command line against the same
configuration the API server reads (.env file and environment variables).

Examples:
  shipctl migrate
  shipctl quote --items "12 Main St, Austin, TX 78701 | 10x8x4"
  shipctl shipment add 1Z999AA10123456784
  shipctl poll`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		level := loaded.LogLevel
		if verbose {
			level = "debug"
		}
		if err := logger.Init(loaded.Environment, level); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the CLI until it finishes or receives SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding the .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(shipmentCmd)
}

// withApp wires the application for the duration of fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
