package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"tankgo/internal/domain/accounts"
	"tankgo/internal/domain/stations"
	"tankgo/internal/infrastructure/persistence/sqlite/model"
	"tankgo/internal/infrastructure/persistence/sqlite/uow"
	"tankgo/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tankgo.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.User{}, &model.UserFavorite{}, &model.Station{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(setupDB(t))
	ctx := context.Background()
	now := model.FormatTime(time.Now())

	created, err := repo.CreateUser(ctx, ports.UserRecord{Nombre: "Ana", Email: "Ana@Example.es", PasswordHash: "h", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.UserID == 0 || created.Email != "ana@example.es" {
		t.Fatalf("created = %+v", created)
	}

	_, err = repo.CreateUser(ctx, ports.UserRecord{Nombre: "Otra", Email: "ana@example.es", PasswordHash: "h", CreatedAt: now})
	if !errors.Is(err, accounts.ErrEmailTaken) {
		t.Fatalf("CreateUser(duplicate) error = %v, want ErrEmailTaken", err)
	}

	got, err := repo.GetUserByEmail(ctx, " ANA@example.es ")
	if err != nil || got.UserID != created.UserID {
		t.Fatalf("GetUserByEmail() = %+v, %v", got, err)
	}
	if _, err := repo.GetUser(ctx, 999); !errors.Is(err, ports.ErrUserNotFound) {
		t.Fatalf("GetUser(missing) error = %v", err)
	}
}

func TestFavoritesInsertOrNoopAndOrdering(t *testing.T) {
	repo := NewAccountRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	inserted, err := repo.AddFavorite(ctx, 1, "A", base)
	if err != nil || !inserted {
		t.Fatalf("AddFavorite(A) = %v, %v", inserted, err)
	}
	if inserted, _ := repo.AddFavorite(ctx, 1, "A", base.Add(time.Minute)); inserted {
		t.Fatal("AddFavorite(duplicate) = true, want noop")
	}
	if _, err := repo.AddFavorite(ctx, 1, "B", base.Add(time.Hour)); err != nil {
		t.Fatalf("AddFavorite(B) error = %v", err)
	}
	if _, err := repo.AddFavorite(ctx, 2, "C", base); err != nil {
		t.Fatalf("AddFavorite(C) error = %v", err)
	}

	items, err := repo.ListFavorites(ctx, 1)
	if err != nil {
		t.Fatalf("ListFavorites() error = %v", err)
	}
	if len(items) != 2 || items[0].StationID != "B" || items[1].StationID != "A" {
		t.Fatalf("ListFavorites() = %+v, want newest first", items)
	}
	if !items[1].CreatedAt.Equal(base) {
		t.Fatalf("created_at = %v, want %v", items[1].CreatedAt, base)
	}

	removed, err := repo.RemoveFavorite(ctx, 1, "A")
	if err != nil || !removed {
		t.Fatalf("RemoveFavorite() = %v, %v", removed, err)
	}
	if removed, _ := repo.RemoveFavorite(ctx, 1, "A"); removed {
		t.Fatal("RemoveFavorite(missing) = true")
	}
}

func TestCreateUserJoinsOuterTransaction(t *testing.T) {
	db := setupDB(t)
	repo := NewAccountRepository(db)
	work := uow.NewUnitOfWork(db)
	ctx := context.Background()

	rollback := errors.New("rollback")
	err := work.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.CreateUser(txCtx, ports.UserRecord{Nombre: "Ana", Email: "ana@example.es", PasswordHash: "h", CreatedAt: model.FormatTime(time.Now())}); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("WithTx() error = %v", err)
	}
	users, err := repo.ListUsers(ctx)
	if err != nil || len(users) != 0 {
		t.Fatalf("ListUsers() after rollback = %v, %v", users, err)
	}
}

func TestNestedWithTxRollsBackWithOuter(t *testing.T) {
	db := setupDB(t)
	repo := NewAccountRepository(db)
	work := uow.NewUnitOfWork(db)
	ctx := context.Background()

	rollback := errors.New("rollback")
	err := work.WithTx(ctx, func(txCtx context.Context) error {
		if err := work.WithTx(txCtx, func(innerCtx context.Context) error {
			_, err := repo.CreateUser(innerCtx, ports.UserRecord{Nombre: "Ana", Email: "ana@example.es", PasswordHash: "h", CreatedAt: model.FormatTime(time.Now())})
			return err
		}); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("WithTx() error = %v", err)
	}
	if users, err := repo.ListUsers(ctx); err != nil || len(users) != 0 {
		t.Fatalf("ListUsers() after outer rollback = %v, %v", users, err)
	}
}

func TestStationReplaceAllAndList(t *testing.T) {
	repo := NewStationRepository(setupDB(t))
	ctx := context.Background()

	first := []stations.Station{
		{IDEESS: "1", Provincia: "MADRID", Municipio: "MADRID", PrecioGasolina95E5: "1,459", Latitud: stations.NewCoordinate(40.4)},
		{IDEESS: "2", Provincia: "MADRID", Municipio: "ALCALA", PrecioGasolina95E5: "1,599"},
		{IDEESS: "3", Provincia: "BARCELONA", Municipio: "BARCELONA"},
	}
	if _, err := repo.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	items, total, err := repo.List(ctx, stations.Filter{Provincia: "madrid", Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].IDEESS != "1" {
		t.Fatalf("List() = %+v total=%d", items, total)
	}
	if lat, ok := items[0].Latitud.Float(); !ok || lat != 40.4 {
		t.Fatalf("Latitud = %v %v", lat, ok)
	}

	cheap, total, err := repo.List(ctx, stations.Filter{PrecioMax: 1.5, Limit: 10})
	if err != nil || total != 1 || cheap[0].IDEESS != "1" {
		t.Fatalf("List(precio_max) = %+v total=%d err=%v", cheap, total, err)
	}

	deleted, err := repo.ReplaceAll(ctx, []stations.Station{{IDEESS: "9"}})
	if err != nil || deleted != 3 {
		t.Fatalf("ReplaceAll(second) = %d, %v", deleted, err)
	}
	if count, _ := repo.Count(ctx); count != 1 {
		t.Fatalf("Count() = %d, want 1", count)
	}
	if _, err := repo.Get(ctx, "1"); !errors.Is(err, ports.ErrStationNotFound) {
		t.Fatalf("Get(replaced) error = %v", err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}
