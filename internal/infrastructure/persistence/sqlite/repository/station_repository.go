package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tankgo/internal/domain/stations"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/ports"
)

const stationInsertBatch = 500

type StationRepository struct {
	db *gorm.DB
}

var _ ports.StationRepository = (*StationRepository)(nil)

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) List(ctx context.Context, filter stations.Filter) ([]stations.Station, int64, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := filterStations(db, filter).Count(&total).Error; err != nil {
		return nil, 0, errs.Wrap(err, "count stations")
	}

	var rows []model.Station
	if err := filterStations(db, filter).Order("ideess asc").Offset(filter.Skip).Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, errs.Wrap(err, "query stations")
	}

	items := make([]stations.Station, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapStation(row))
	}
	return items, total, nil
}

func (r *StationRepository) Get(ctx context.Context, stationID string) (stations.Station, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return stations.Station{}, err
	}

	var row model.Station
	if err := db.Where("ideess = ?", strings.TrimSpace(stationID)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stations.Station{}, ports.ErrStationNotFound
		}
		return stations.Station{}, errs.Wrap(err, "query station")
	}
	return mapStation(row), nil
}

func (r *StationRepository) ReplaceAll(ctx context.Context, items []stations.Station) (int64, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return 0, err
	}

	rows := make([]model.Station, 0, len(items))
	for _, item := range items {
		rows = append(rows, toStationRow(item))
	}

	var deleted int64
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Station{})
		if result.Error != nil {
			return errs.Wrap(result.Error, "delete stations")
		}
		deleted = result.RowsAffected
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, stationInsertBatch).Error; err != nil {
			return errs.Wrap(err, "insert stations")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *StationRepository) Count(ctx context.Context) (int64, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := db.Model(&model.Station{}).Count(&total).Error; err != nil {
		return 0, errs.Wrap(err, "count stations")
	}
	return total, nil
}

func (r *StationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Wrap(err, "ping database")
	}
	return nil
}

func filterStations(db *gorm.DB, filter stations.Filter) *gorm.DB {
	query := db.Model(&model.Station{})
	if provincia := strings.TrimSpace(filter.Provincia); provincia != "" {
		query = query.Where("provincia LIKE ?", "%"+provincia+"%")
	}
	if municipio := strings.TrimSpace(filter.Municipio); municipio != "" {
		query = query.Where("municipio LIKE ?", "%"+municipio+"%")
	}
	if filter.PrecioMax > 0 {
		query = query.Where("gasolina_95_value IS NOT NULL AND gasolina_95_value <= ?", filter.PrecioMax)
	}
	return query
}

func toStationRow(item stations.Station) model.Station {
	row := model.Station{
		IDEESS:             strings.TrimSpace(item.IDEESS),
		Rotulo:             item.Rotulo,
		Municipio:          item.Municipio,
		Provincia:          item.Provincia,
		Direccion:          item.Direccion,
		PrecioGasolina95E5: item.PrecioGasolina95E5,
		PrecioGasoleoA:     item.PrecioGasoleoA,
	}
	if v, ok := item.Gasolina95(); ok {
		row.Gasolina95Value = &v
	}
	if v, ok := item.Latitud.Float(); ok {
		row.Latitud = &v
	}
	if v, ok := item.Longitud.Float(); ok {
		row.Longitud = &v
	}
	return row
}

func mapStation(row model.Station) stations.Station {
	item := stations.Station{
		IDEESS:             row.IDEESS,
		Rotulo:             row.Rotulo,
		Municipio:          row.Municipio,
		Provincia:          row.Provincia,
		Direccion:          row.Direccion,
		PrecioGasolina95E5: row.PrecioGasolina95E5,
		PrecioGasoleoA:     row.PrecioGasoleoA,
	}
	if row.Latitud != nil {
		item.Latitud = stations.NewCoordinate(*row.Latitud)
	}
	if row.Longitud != nil {
		item.Longitud = stations.NewCoordinate(*row.Longitud)
	}
	return item
}
