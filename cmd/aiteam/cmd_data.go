package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"aiteam-manager/internal/app"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/syncbus"
)

var exportOutput string

// exportCmd writes every chat in the import format.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all chats as JSON",
	Long: `Writes every stored chat, with all of its fields, as a JSON array.
The output can be read back with 'aiteam import'.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import chats from a JSON export",
	Long: `Stores every chat of a JSON array produced by 'aiteam export'. Chats with
an existing id are replaced. Running instances that share the relay
directory reload their chat list.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print chat statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
}

// withApp opens an instance for the duration of fn. It joins the relay, if
// one is configured, so writes reach running servers.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app.App) error {
		chats, err := a.Manager.ExportAllChats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("could not create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}
		if err := writeJSON(out, chats); err != nil {
			return fmt.Errorf("could not write export: %w", err)
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d chats to %s\n", len(chats), exportOutput)
		}
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read %s: %w", args[0], err)
	}
	var chats []*model.Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return fmt.Errorf("%s is not a chat export: %w", args[0], err)
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		imported, err := a.Manager.ImportChats(cmd.Context(), chats)
		if err != nil {
			return err
		}
		a.Bus.Broadcast(cmd.Context(), syncbus.ChatUpdated, nil)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d chats\n", len(imported))
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app.App) error {
		stats, err := a.Manager.GetStats(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), stats)
	})
}
