package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tankgo/internal/bootstrap/config"
	"tankgo/internal/bootstrap/database"
	"tankgo/internal/bootstrap/logging"
	cacheinfra "tankgo/internal/infrastructure/cache"
	sqliterepo "tankgo/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "tankgo/internal/infrastructure/persistence/sqlite/uow"
	"tankgo/internal/infrastructure/remote"
	"tankgo/internal/ports"
	"tankgo/internal/usecase/accounts"
	"tankgo/internal/usecase/favorites"
	"tankgo/internal/usecase/health"
	"tankgo/internal/usecase/offline"
	"tankgo/internal/usecase/session"
	"tankgo/internal/usecase/stations"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAccountRepository,
			fx.As(new(ports.AccountRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewStationRepository,
			fx.As(new(ports.StationRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteResponseStore,
			fx.As(new(ports.ResponseStore)),
		),
	),
	fx.Provide(provideHTTPClient),
	fx.Provide(provideEndpoints),
	fx.Provide(
		fx.Annotate(
			remote.NewHTTPFetcher,
			fx.As(new(ports.Fetcher)),
		),
	),
	fx.Provide(
		fx.Annotate(
			remote.NewFavoritesClient,
			fx.As(new(ports.FavoritesRemote)),
		),
	),
	fx.Provide(provideStationsRemote),
	fx.Provide(
		fx.Annotate(
			remote.NewAuthClient,
			fx.As(new(ports.AuthRemote)),
		),
	),
	fx.Provide(provideControlClient),
	fx.Provide(provideHost),
	fx.Provide(provideTokenIssuer),
	fx.Provide(accounts.NewService),
	fx.Provide(session.New),
	fx.Provide(favorites.NewService),
	fx.Provide(stations.NewService),
	fx.Provide(provideHealthChecker),
	fx.Provide(provideProbe),
	fx.Invoke(registerStartup),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

type appParams struct {
	fx.In

	Config    config.Config
	DB        *gorm.DB
	Host      *offline.Host
	Accounts  *accounts.Service
	Session   *session.Session
	Favorites *favorites.Service
	Stations  *stations.Service
	Health    *health.Checker
	Probe     *health.Probe
	Control   *remote.ControlClient
	Remote    ports.StationsRemote
}

func provideApp(p appParams) *App {
	return &App{
		Config:    p.Config,
		DB:        p.DB,
		Host:      p.Host,
		Accounts:  p.Accounts,
		Session:   p.Session,
		Favorites: p.Favorites,
		Stations:  p.Stations,
		Health:    p.Health,
		Probe:     p.Probe,
		Control:   p.Control,

		RemoteStations: p.Remote,
	}
}

func provideHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Remote.Timeout}
}

func provideEndpoints(cfg config.Config) remote.Endpoints {
	return remote.Endpoints{
		BaseURL:       cfg.Remote.BaseURL,
		FavoritesPath: cfg.Remote.FavoritesPath,
		StationsPath:  cfg.Remote.StationsPath,
		AuthPath:      cfg.Remote.AuthPath,
	}
}

func provideControlClient(client *http.Client, cfg config.Config) *remote.ControlClient {
	return remote.NewControlClient(client, cfg.Proxy.URL)
}

func provideHost(ctx context.Context, cfg config.Config, store ports.ResponseStore, fetcher ports.Fetcher, kv ports.Cache) (*offline.Host, error) {
	workerCfg, err := WorkerConfig(ctx, cfg.Worker)
	if err != nil {
		return nil, err
	}
	return offline.NewHost(workerCfg, store, fetcher, kv)
}

// provideStationsRemote reads station details through the offline host, so details cached by
// a pre-warm are served when the API is unreachable. The host's own fetcher keeps the raw client.
func provideStationsRemote(host *offline.Host, cfg config.Config, endpoints remote.Endpoints) ports.StationsRemote {
	client := &http.Client{
		Transport: &offline.Transport{Host: host},
		Timeout:   cfg.Remote.Timeout,
	}
	return remote.NewFavoritesClient(client, endpoints)
}

func provideTokenIssuer(cfg config.Config) *accounts.TokenIssuer {
	return accounts.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func provideHealthChecker(client *http.Client, cfg config.Config) *health.Checker {
	return health.NewChecker(client, cfg.Health.Timeout)
}

func provideProbe(repo ports.StationRepository, cfg config.Config) *health.Probe {
	return health.NewProbe(repo, cfg.API.Version)
}

// registerStartup migrates the schema, restores persisted workers and loads the favorites
// projection for a stored session.
func registerStartup(lc fx.Lifecycle, app *App) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logCtx := logging.WithComponent(ctx, "bootstrap.fx")
			if err := app.InitSchema(logCtx); err != nil {
				return err
			}
			if err := app.Host.Resume(logCtx); err != nil {
				return err
			}
			token, err := app.Session.Token(logCtx)
			if err != nil {
				return err
			}
			app.Favorites.SetToken(token)
			return nil
		},
	})
}
