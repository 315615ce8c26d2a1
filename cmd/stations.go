/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tankgo/internal/bootstrap"
	"tankgo/internal/bootstrap/logging"
	domainstations "tankgo/internal/domain/stations"
	"tankgo/internal/errs"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Manage the local fuel station dataset",
}

var stationsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the dataset with a JSON export of the price feed",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		path := cmd.Flags().Arg(0)

		file, err := os.Open(path)
		if err != nil {
			return errs.Wrapf(err, "open dataset %s", path)
		}
		defer func() { _ = file.Close() }()

		result, err := app.Stations.Import(ctx, file)
		if err != nil {
			logging.Error(ctx, "import stations failed", slog.String("file", path), slog.Any("err", errs.Loggable(err)))
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), result)
	}),
}

var stationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stations from the local dataset",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		var filter domainstations.Filter
		filter.Provincia, _ = cmd.Flags().GetString("provincia")
		filter.Municipio, _ = cmd.Flags().GetString("municipio")
		filter.PrecioMax, _ = cmd.Flags().GetFloat64("precio-max")
		filter.Skip, _ = cmd.Flags().GetInt("skip")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		page, err := app.Stations.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		for _, station := range page.Gasolineras {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", station.IDEESS, station.Rotulo, station.Municipio, station.PrecioGasolina95E5); err != nil {
				return errs.Wrap(err, "write stations output")
			}
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d de %d\n", page.Count, page.Total)
		return err
	}),
}

var stationsGetCmd = &cobra.Command{
	Use:   "get <ideess>",
	Short: "Show one station",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		get := app.Stations.Get
		if remoteOnly, _ := cmd.Flags().GetBool("remote"); remoteOnly {
			get = app.RemoteStations.Get
		}
		station, err := get(cmd.Context(), cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), station)
	}),
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.AddCommand(stationsImportCmd, stationsListCmd, stationsGetCmd)

	stationsGetCmd.Flags().Bool("remote", false, "Read from the API (remote.base_url) instead of the local dataset")

	stationsListCmd.Flags().String("provincia", "", "Province filter (substring)")
	stationsListCmd.Flags().String("municipio", "", "Municipality filter (substring)")
	stationsListCmd.Flags().Float64("precio-max", 0, "Maximum Gasolina 95 E5 price")
	stationsListCmd.Flags().Int("skip", 0, "Records to skip")
	stationsListCmd.Flags().Int("limit", domainstations.DefaultLimit, "Records to return")
}
