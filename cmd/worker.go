/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Offline worker lifecycle commands",
}

var workerInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a worker version and precache the app shell",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		version, _ := cmd.Flags().GetString("version")
		if strings.TrimSpace(version) == "" {
			version = app.Host.ConfiguredVersion()
		}

		worker, err := app.Host.Register(ctx, version)
		if err != nil {
			logging.Error(ctx, "install worker failed", slog.String("version", version), slog.Any("err", errs.Loggable(err)))
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "worker %s %s\n", worker.Version(), worker.State()); err != nil {
			return errs.Wrap(err, "write install output")
		}
		return nil
	}),
}

var workerActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Promote the waiting worker (SKIP_WAITING)",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		if viaProxy(cmd) {
			if err := app.Control.SkipWaiting(ctx); err != nil {
				return err
			}
		} else if err := app.Host.SkipWaiting(ctx); err != nil {
			return err
		}
		return printStatus(cmd, app)
	}),
}

var workerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active and waiting worker versions",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		return printStatus(cmd, app)
	}),
}

var workerMessageCmd = &cobra.Command{
	Use:   "message <json>",
	Short: "Post a control message, e.g. {\"type\":\"SKIP_WAITING\"}",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		message, err := domainoffline.ParseCommand([]byte(cmd.Flags().Arg(0)))
		if err != nil {
			return err
		}

		if viaProxy(cmd) {
			reply, err := app.Control.Send(ctx, message)
			if err != nil {
				return err
			}
			return writeJSONTo(cmd.OutOrStdout(), reply)
		}

		result, err := app.Host.Dispatch(ctx, message)
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), map[string]any{
			"type":    message.Type(),
			"cached":  result.Cached,
			"skipped": result.Skipped,
		})
	}),
}

var workerSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fire a background sync event",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		tag, _ := cmd.Flags().GetString("tag")
		if viaProxy(cmd) {
			return app.Control.Sync(ctx, tag)
		}
		return app.Host.Sync(ctx, tag)
	}),
}

func printStatus(cmd *cobra.Command, app *bootstrap.App) error {
	if viaProxy(cmd) {
		raw, err := app.Control.Status(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), raw)
	}
	status, err := app.Host.Status(cmd.Context())
	if err != nil {
		return errs.Wrap(err, "read worker status")
	}
	return writeJSONTo(cmd.OutOrStdout(), status)
}

func viaProxy(cmd *cobra.Command) bool {
	enabled, _ := cmd.Flags().GetBool("via-proxy")
	return enabled
}

func writeJSONTo(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errs.Wrap(err, "write json output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerInstallCmd, workerActivateCmd, workerStatusCmd, workerMessageCmd, workerSyncCmd)
	workerCmd.PersistentFlags().Bool("via-proxy", false, "Send control messages to the running proxy (proxy.url)")

	workerInstallCmd.Flags().String("version", "", "Worker version (defaults to worker.version)")
	workerSyncCmd.Flags().String("tag", domainoffline.SyncTagFavorites, "Sync tag")
}
