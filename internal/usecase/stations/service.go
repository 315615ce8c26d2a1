package stations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"tankgo/internal/bootstrap/logging"
	domainstations "tankgo/internal/domain/stations"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

var ErrEmptyDataset = errors.New("dataset contains no stations")

type Service struct {
	repo ports.StationRepository
}

func NewService(repo ports.StationRepository) *Service {
	return &Service{repo: repo}
}

// List applies the default limit when none was given and validates paging.
func (s *Service) List(ctx context.Context, filter domainstations.Filter) (domainstations.Page, error) {
	if ctx == nil {
		return domainstations.Page{}, errors.New("context is required")
	}
	if filter.Limit == 0 {
		filter.Limit = domainstations.DefaultLimit
	}
	filter.Provincia = strings.TrimSpace(filter.Provincia)
	filter.Municipio = strings.TrimSpace(filter.Municipio)
	if err := filter.Validate(); err != nil {
		return domainstations.Page{}, err
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domainstations.Page{}, errs.Wrap(err, "list stations")
	}
	logging.Debug(logging.WithComponent(ctx, "usecase.stations"), "stations listed",
		slog.Int("count", len(items)), slog.Int64("total", total))
	return domainstations.Page{
		Total:       total,
		Skip:        filter.Skip,
		Limit:       filter.Limit,
		Count:       len(items),
		Gasolineras: items,
	}, nil
}

func (s *Service) Get(ctx context.Context, stationID string) (domainstations.Station, error) {
	return s.repo.Get(ctx, strings.TrimSpace(stationID))
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

type ImportResult struct {
	Deleted  int64 `json:"registros_eliminados"`
	Inserted int   `json:"registros_insertados"`
	Skipped  int   `json:"registros_descartados"`
}

// Import replaces the whole dataset with the stations read from r. It accepts either a plain
// array of stations or the government feed object with a ListaEESSPrecio array. Invalid
// records are skipped; an empty result leaves the current data untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	if ctx == nil {
		return ImportResult{}, errors.New("context is required")
	}
	logCtx := logging.WithComponent(ctx, "usecase.stations")

	raw, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, errs.Wrap(err, "read dataset")
	}
	parsed, err := decodeDataset(raw)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	valid := make([]domainstations.Station, 0, len(parsed))
	seen := make(map[string]struct{}, len(parsed))
	for _, station := range parsed {
		station.IDEESS = strings.TrimSpace(station.IDEESS)
		if err := station.Validate(); err != nil {
			result.Skipped++
			continue
		}
		if _, dup := seen[station.IDEESS]; dup {
			result.Skipped++
			continue
		}
		seen[station.IDEESS] = struct{}{}
		valid = append(valid, station)
	}
	if len(valid) == 0 {
		return result, ErrEmptyDataset
	}

	deleted, err := s.repo.ReplaceAll(logCtx, valid)
	if err != nil {
		return ImportResult{}, errs.Wrap(err, "replace stations")
	}
	result.Deleted = deleted
	result.Inserted = len(valid)

	logging.Info(logCtx, "stations imported",
		slog.Int64("deleted", result.Deleted),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

// feedStation is one entry of the government feed, which names longitude differently.
type feedStation struct {
	IDEESS             string                    `json:"IDEESS"`
	Rotulo             string                    `json:"Rótulo"`
	Municipio          string                    `json:"Municipio"`
	Provincia          string                    `json:"Provincia"`
	Direccion          string                    `json:"Dirección"`
	PrecioGasolina95E5 string                    `json:"Precio Gasolina 95 E5"`
	PrecioGasoleoA     string                    `json:"Precio Gasoleo A"`
	Latitud            domainstations.Coordinate `json:"Latitud"`
	Longitud           domainstations.Coordinate `json:"Longitud (WGS84)"`
}

func (f feedStation) station() domainstations.Station {
	return domainstations.Station{
		IDEESS:             f.IDEESS,
		Rotulo:             strings.TrimSpace(f.Rotulo),
		Municipio:          strings.TrimSpace(f.Municipio),
		Provincia:          strings.TrimSpace(f.Provincia),
		Direccion:          strings.TrimSpace(f.Direccion),
		PrecioGasolina95E5: f.PrecioGasolina95E5,
		PrecioGasoleoA:     f.PrecioGasoleoA,
		Latitud:            f.Latitud,
		Longitud:           f.Longitud,
	}
}

func decodeDataset(raw []byte) ([]domainstations.Station, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyDataset
	}

	if raw[0] == '[' {
		var items []domainstations.Station
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errs.Wrap(err, "decode station list")
		}
		return items, nil
	}

	var feed struct {
		Items []feedStation `json:"ListaEESSPrecio"`
	}
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, errs.Wrap(err, "decode station feed")
	}
	items := make([]domainstations.Station, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, item.station())
	}
	return items, nil
}
