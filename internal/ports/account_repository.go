package ports

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type UserRecord struct {
	UserID       uint64
	Nombre       string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    string
}

type FavoriteRecord struct {
	UserID    uint64
	StationID string
	CreatedAt time.Time
}

type AccountRepository interface {
	CreateUser(ctx context.Context, user UserRecord) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUser(ctx context.Context, userID uint64) (UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
	SetAdmin(ctx context.Context, userID uint64, isAdmin bool) error

	// AddFavorite reports false when the pair already existed.
	AddFavorite(ctx context.Context, userID uint64, stationID string, createdAt time.Time) (bool, error)
	// RemoveFavorite reports false when nothing was deleted.
	RemoveFavorite(ctx context.Context, userID uint64, stationID string) (bool, error)
	// ListFavorites returns newest first.
	ListFavorites(ctx context.Context, userID uint64) ([]FavoriteRecord, error)
}
