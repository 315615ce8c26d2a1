package ports

import (
	"context"

	"tankgo/internal/domain/favorites"
	"tankgo/internal/domain/stations"
)

// FavoritesRemote is the remote favorites resource. Transport failures are
// *favorites.NetworkError and non-success statuses *favorites.RemoteRejectedError.
type FavoritesRemote interface {
	List(ctx context.Context, token string) ([]favorites.Record, error)
	Add(ctx context.Context, token string, stationID string) error
	Remove(ctx context.Context, token string, stationID string) error
}

// StationsRemote reads station details from the remote source.
type StationsRemote interface {
	Get(ctx context.Context, stationID string) (stations.Station, error)
}
