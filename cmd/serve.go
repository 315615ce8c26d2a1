/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
	"tankgo/internal/transport/proxy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the offline cache proxy in front of the app origin",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		version := app.Host.ConfiguredVersion()
		if _, err := app.Host.Register(ctx, version); err != nil {
			if app.Host.Controller() == nil {
				return errs.Wrap(err, "register worker")
			}
			logging.Warn(ctx, "install failed, keeping previous worker",
				slog.String("version", version),
				slog.String("active", app.Host.Controller().Version()),
				slog.Any("err", errs.Loggable(err)),
			)
		}

		origin, err := url.Parse(strings.TrimSpace(app.Config.Worker.Origin))
		if err != nil {
			return errs.Wrap(err, "parse worker.origin")
		}
		handler, err := proxy.NewHandler(app.Host, origin)
		if err != nil {
			return err
		}

		listen, _ := cmd.Flags().GetString("listen")
		if strings.TrimSpace(listen) == "" {
			listen = app.Config.Proxy.Listen
		}
		return serveHTTP(ctx, listen, handler)
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address (defaults to proxy.listen)")
}
