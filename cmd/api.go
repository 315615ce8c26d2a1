/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainaccounts "tankgo/internal/domain/accounts"
	"tankgo/internal/errs"
	"tankgo/internal/transport/httpapi"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the accounts, favorites and stations API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		if strings.TrimSpace(app.Config.Auth.JWTSecret) == "" {
			return domainaccounts.ErrSigningKeyMissing
		}

		handler := httpapi.NewRouter(httpapi.Deps{
			Accounts: app.Accounts,
			Stations: app.Stations,
			Probe:    app.Probe,
		})

		listen, _ := cmd.Flags().GetString("listen")
		if strings.TrimSpace(listen) == "" {
			listen = app.Config.API.Listen
		}
		return serveHTTP(ctx, listen, handler)
	}),
}

var apiPromoteCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant admin rights to a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		if err := app.Accounts.PromoteAdmin(cmd.Context(), cmd.Flags().Arg(0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "admin granted: %s\n", cmd.Flags().Arg(0)); err != nil {
			return errs.Wrap(err, "write promote output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.AddCommand(apiPromoteCmd)
	apiCmd.Flags().String("listen", "", "Listen address (defaults to api.listen)")
}
