package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aiteam-manager/internal/app"
	"aiteam-manager/internal/config"
)

// cfg is loaded once for every command in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aiteam",
	Short: "AI Team Manager - local chat client state and sync service",
	Long: `aiteam keeps chats and AI provider settings in a local SQLite database and
serves them to a rendering client over a local HTTP API. Several instances
on one host stay in sync through a shared relay directory.

Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		// Only the server logs to stdout; the other commands print their
		// results there.
		out := os.Stderr
		if !cmd.HasParent() || cmd.Name() == "serve" {
			out = os.Stdout
		}
		app.SetupLogger(out, cfg.LogLevel)
		app.LogConfigSource(cfg)
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	return app.Run(cmd.Context(), cfg)
}

func init() {
	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, statsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
