/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainaccounts "tankgo/internal/domain/accounts"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
	"tankgo/internal/usecase/favorites"
	"tankgo/internal/usecase/session"
)

var errNotLoggedIn = errors.New("no hay sesión iniciada")

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the token until it expires",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		profile, err := startSession(ctx, app.Session, app.Favorites, email, password)
		if err != nil {
			logging.Warn(ctx, "login failed", slog.Any("err", errs.Loggable(err)))
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "sesión iniciada: %s <%s>\n", profile.Nombre, profile.Email); err != nil {
			return errs.Wrap(err, "write login output")
		}
		return nil
	}),
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		nombre, _ := cmd.Flags().GetString("nombre")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		profile, err := app.Session.Register(ctx, ports.RegisterInput{Nombre: nombre, Email: email, Password: password})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "usuario registrado: %d %s\n", profile.ID, profile.Email); err != nil {
			return errs.Wrap(err, "write register output")
		}
		return nil
	}),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		if err := app.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		app.Favorites.SetToken("")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "sesión cerrada")
		return err
	}),
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored profile",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		profile, ok, err := app.Session.Profile(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			return errNotLoggedIn
		}
		return writeJSONTo(cmd.OutOrStdout(), profile)
	}),
}

// startSession logs in and reloads the favorites projection for the new token. A failed
// favorites load is logged and does not undo the login.
func startSession(ctx context.Context, sess *session.Session, favs *favorites.Service, email string, password string) (domainaccounts.Profile, error) {
	profile, err := sess.Login(ctx, email, password)
	if err != nil {
		return domainaccounts.Profile{}, err
	}
	token, err := sess.Token(ctx)
	if err != nil {
		return domainaccounts.Profile{}, errs.Wrap(err, "read stored token")
	}
	if err := favs.SetCredential(ctx, token); err != nil {
		logging.Warn(ctx, "load favorites after login failed", slog.Any("err", errs.Loggable(err)))
	}
	return profile, nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authWhoamiCmd)

	for _, c := range []*cobra.Command{authLoginCmd, authRegisterCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	authRegisterCmd.Flags().String("nombre", "", "Display name")
	_ = authRegisterCmd.MarkFlagRequired("nombre")
}
