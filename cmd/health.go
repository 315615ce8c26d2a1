/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/health"
)

var errServicesDown = errors.New("one or more services are down")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the API and the app origin",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		targets := []health.Target{
			{Name: "api", URL: strings.TrimRight(app.Config.Remote.BaseURL, "/") + "/health"},
			{Name: "frontend", URL: app.Config.Worker.Origin},
		}
		extra, _ := cmd.Flags().GetStringSlice("target")
		for _, raw := range extra {
			name, target, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("target %q must be name=url", raw)
			}
			targets = append(targets, health.Target{Name: strings.TrimSpace(name), URL: strings.TrimSpace(target)})
		}

		results, err := app.Health.Check(ctx, targets)
		if err != nil {
			return err
		}
		for _, result := range results {
			line := fmt.Sprintf("%-10s %-4s %4d %6dms %s", result.Name, result.Status, result.Code, result.Latency.Milliseconds(), result.URL)
			if result.ErrorMsg != "" {
				line += " (" + result.ErrorMsg + ")"
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return errs.Wrap(err, "write health output")
			}
		}
		if !health.AllUp(results) {
			return errServicesDown
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringSlice("target", nil, "Extra target as name=url (repeatable)")
}
