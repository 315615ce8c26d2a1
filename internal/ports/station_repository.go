package ports

import (
	"context"
	"errors"

	"tankgo/internal/domain/stations"
)

var ErrStationNotFound = errors.New("station not found")

type StationRepository interface {
	List(ctx context.Context, filter stations.Filter) ([]stations.Station, int64, error)
	Get(ctx context.Context, stationID string) (stations.Station, error)
	// ReplaceAll deletes every station and inserts the given ones. Returns deleted count.
	ReplaceAll(ctx context.Context, items []stations.Station) (int64, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
