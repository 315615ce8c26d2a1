package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tankgo/internal/domain/accounts"
	"tankgo/internal/errs"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/ports"
)

type AccountRepository struct {
	db *gorm.DB
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateUser(ctx context.Context, user ports.UserRecord) (ports.UserRecord, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := dbFromContext(r.db, ctx)
		if err != nil {
			return ports.UserRecord{}, err
		}

		email := strings.ToLower(strings.TrimSpace(user.Email))
		var existing int64
		if err := db.Model(&model.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return ports.UserRecord{}, errs.Wrap(err, "check email")
		}
		if existing > 0 {
			return ports.UserRecord{}, accounts.ErrEmailTaken
		}

		row := model.User{
			Nombre:       user.Nombre,
			Email:        email,
			PasswordHash: user.PasswordHash,
			IsAdmin:      user.IsAdmin,
			CreatedAt:    user.CreatedAt,
		}
		if err := db.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.UserRecord{}, accounts.ErrEmailTaken
			}
			return ports.UserRecord{}, errs.Wrap(err, "insert user")
		}
		return mapUser(row), nil
	}

	var created ports.UserRecord
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.CreateUser(ports.WithTxContext(ctx, tx), user)
		if err != nil {
			return err
		}
		created = row
		return nil
	}); err != nil {
		return ports.UserRecord{}, err
	}
	return created, nil
}

func (r *AccountRepository) GetUserByEmail(ctx context.Context, email string) (ports.UserRecord, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return ports.UserRecord{}, err
	}
	return takeUser(db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

func (r *AccountRepository) GetUser(ctx context.Context, userID uint64) (ports.UserRecord, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return ports.UserRecord{}, err
	}
	return takeUser(db.Where("user_id = ?", userID))
}

func (r *AccountRepository) ListUsers(ctx context.Context) ([]ports.UserRecord, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.User
	if err := db.Order("user_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query users")
	}
	items := make([]ports.UserRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapUser(row))
	}
	return items, nil
}

func (r *AccountRepository) SetAdmin(ctx context.Context, userID uint64, isAdmin bool) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.User{}).Where("user_id = ?", userID).Update("is_admin", isAdmin)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update user admin")
	}
	if result.RowsAffected == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepository) AddFavorite(ctx context.Context, userID uint64, stationID string, createdAt time.Time) (bool, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return false, err
	}

	row := model.UserFavorite{
		UserID:    userID,
		StationID: strings.TrimSpace(stationID),
		CreatedAt: model.FormatTime(createdAt),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "insert favorite")
	}
	return result.RowsAffected > 0, nil
}

func (r *AccountRepository) RemoveFavorite(ctx context.Context, userID uint64, stationID string) (bool, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return false, err
	}

	result := db.Where("user_id = ? AND ideess = ?", userID, strings.TrimSpace(stationID)).Delete(&model.UserFavorite{})
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "delete favorite")
	}
	return result.RowsAffected > 0, nil
}

func (r *AccountRepository) ListFavorites(ctx context.Context, userID uint64) ([]ports.FavoriteRecord, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.UserFavorite
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Order("rowid desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query favorites")
	}

	items := make([]ports.FavoriteRecord, 0, len(rows))
	for _, row := range rows {
		createdAt, err := model.ParseTime(row.CreatedAt)
		if err != nil {
			return nil, errs.Wrapf(err, "parse favorite created_at %q", row.CreatedAt)
		}
		items = append(items, ports.FavoriteRecord{
			UserID:    row.UserID,
			StationID: row.StationID,
			CreatedAt: createdAt,
		})
	}
	return items, nil
}

func takeUser(query *gorm.DB) (ports.UserRecord, error) {
	var row model.User
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRecord{}, ports.ErrUserNotFound
		}
		return ports.UserRecord{}, errs.Wrap(err, "query user")
	}
	return mapUser(row), nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func mapUser(row model.User) ports.UserRecord {
	return ports.UserRecord{
		UserID:       row.UserID,
		Nombre:       row.Nombre,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		CreatedAt:    row.CreatedAt,
	}
}
