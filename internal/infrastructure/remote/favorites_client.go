package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tankgo/internal/domain/favorites"
	"tankgo/internal/domain/stations"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

// FavoritesClient talks to the favorites and station-detail endpoints.
type FavoritesClient struct {
	api apiClient
}

var (
	_ ports.FavoritesRemote = (*FavoritesClient)(nil)
	_ ports.StationsRemote  = (*FavoritesClient)(nil)
)

func NewFavoritesClient(client *http.Client, endpoints Endpoints) *FavoritesClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &FavoritesClient{api: apiClient{http: client, endpoints: endpoints}}
}

func (c *FavoritesClient) List(ctx context.Context, token string) ([]favorites.Record, error) {
	target, err := c.api.endpoints.resolve(c.api.endpoints.FavoritesPath)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.do(ctx, http.MethodGet, target, token, nil)
	if err != nil {
		return nil, &favorites.NetworkError{Op: "list favorites", Err: err}
	}
	if !resp.ok() {
		return nil, favorites.RejectedFromBody("list favorites", resp.status, resp.body, favorites.MessageLoadFailed)
	}

	var records []favorites.Record
	if err := json.Unmarshal(resp.body, &records); err != nil {
		return nil, &favorites.RemoteRejectedError{Op: "list favorites", Status: resp.status, Message: favorites.MessageLoadFailed}
	}
	return records, nil
}

func (c *FavoritesClient) Add(ctx context.Context, token string, stationID string) error {
	target, err := c.api.endpoints.resolve(c.api.endpoints.FavoritesPath)
	if err != nil {
		return err
	}

	resp, err := c.api.do(ctx, http.MethodPost, target, token, map[string]string{"ideess": stationID})
	if err != nil {
		return &favorites.NetworkError{Op: "add favorite", Err: err}
	}
	if !resp.ok() {
		return favorites.RejectedFromBody("add favorite", resp.status, resp.body, favorites.MessageAddFailed)
	}
	return nil
}

func (c *FavoritesClient) Remove(ctx context.Context, token string, stationID string) error {
	target, err := c.api.endpoints.resolve(c.api.endpoints.FavoritesPath, stationID)
	if err != nil {
		return err
	}

	resp, err := c.api.do(ctx, http.MethodDelete, target, token, nil)
	if err != nil {
		return &favorites.NetworkError{Op: "remove favorite", Err: err}
	}
	if !resp.ok() {
		return favorites.RejectedFromBody("remove favorite", resp.status, resp.body, favorites.MessageRemoveFailed)
	}
	return nil
}

func (c *FavoritesClient) Get(ctx context.Context, stationID string) (stations.Station, error) {
	target, err := c.api.endpoints.resolve(c.api.endpoints.StationsPath, strings.TrimSpace(stationID))
	if err != nil {
		return stations.Station{}, err
	}

	resp, err := c.api.do(ctx, http.MethodGet, target, "", nil)
	if err != nil {
		return stations.Station{}, &favorites.NetworkError{Op: "get station", Err: err}
	}
	if resp.status == http.StatusNotFound {
		return stations.Station{}, ports.ErrStationNotFound
	}
	if !resp.ok() {
		return stations.Station{}, favorites.RejectedFromBody("get station", resp.status, resp.body, "Error al cargar la gasolinera")
	}

	var station stations.Station
	if err := json.Unmarshal(resp.body, &station); err != nil {
		return stations.Station{}, errs.Wrap(err, "decode station")
	}
	return station, nil
}
