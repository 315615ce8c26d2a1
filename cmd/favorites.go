/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainfavorites "tankgo/internal/domain/favorites"
	"tankgo/internal/errs"
	"tankgo/internal/usecase/favorites"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect and edit the favorite stations of the logged-in user",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite station IDs",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		if err := loadFavorites(cmd.Context(), app); err != nil {
			return err
		}
		for _, id := range app.Favorites.IDs() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
				return errs.Wrap(err, "write favorites output")
			}
		}
		return nil
	}),
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <ideess>",
	Short: "Add a station to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: favoriteChange("add", func(ctx context.Context, svc *favorites.Service, id string) error {
		return svc.Add(ctx, id)
	}),
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <ideess>",
	Short: "Remove a station from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: favoriteChange("remove", func(ctx context.Context, svc *favorites.Service, id string) error {
		return svc.Remove(ctx, id)
	}),
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <ideess>",
	Short: "Add or remove a station depending on its current state",
	Args:  cobra.ExactArgs(1),
	RunE: favoriteChange("toggle", func(ctx context.Context, svc *favorites.Service, id string) error {
		return svc.Toggle(ctx, id)
	}),
}

var favoritesOfflineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Cache every favorite station for offline use",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		if err := loadFavorites(ctx, app); err != nil {
			return err
		}

		var warmer favorites.Warmer = app.Host
		if viaProxy(cmd) {
			warmer = app.Control
		}
		count, err := app.Favorites.WarmOffline(ctx, warmer)
		if err != nil {
			logging.Warn(ctx, "warm offline failed", slog.Any("err", errs.Loggable(err)))
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "favoritos enviados a caché: %d\n", count); err != nil {
			return errs.Wrap(err, "write offline output")
		}
		return nil
	}),
}

func favoriteChange(op string, change func(ctx context.Context, svc *favorites.Service, id string) error) func(cmd *cobra.Command, args []string) error {
	return withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		if err := loadFavorites(ctx, app); err != nil {
			return err
		}
		id := cmd.Flags().Arg(0)
		if err := change(ctx, app.Favorites, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		state := "no es favorito"
		if app.Favorites.IsFavorite(id) {
			state = "es favorito"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, state); err != nil {
			return errs.Wrap(err, "write favorites output")
		}
		return nil
	})
}

func loadFavorites(ctx context.Context, app *bootstrap.App) error {
	if !app.Favorites.Authenticated() {
		return domainfavorites.ErrAuthRequired
	}
	if err := app.Favorites.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", domainfavorites.MessageLoadFailed, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesToggleCmd, favoritesOfflineCmd)
	favoritesOfflineCmd.Flags().Bool("via-proxy", false, "Send CACHE_FAVORITES to the running proxy (proxy.url)")
}
