package cmd

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/favconsole"
	"tankgo/internal/usecase/favorites"
)

var consoleFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Start the favorites console",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		if !app.Favorites.Authenticated() {
			return domainfavorites.ErrAuthRequired
		}

		var warmer favorites.Warmer = app.Host
		if viaProxy(cmd) {
			warmer = app.Control
		}
		model := favconsole.NewFavoritesModel(ctx, app.Favorites, favconsole.Options{Warmer: warmer})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run favorites console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleFavoritesCmd)
	consoleFavoritesCmd.Flags().Bool("via-proxy", false, "Pre-warm through the running proxy (proxy.url)")
}
