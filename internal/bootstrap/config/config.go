package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Auth     AuthConfig     `mapstructure:"auth"`
	API      APIConfig      `mapstructure:"api"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	Health   HealthConfig   `mapstructure:"health"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// BusyTimeout is how long a writer waits on a locked SQLite file. Proxy handlers write
	// concurrently.
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
	LogLevel    string        `mapstructure:"log_level"`
}

// WorkerConfig is the interception layer for one origin.
type WorkerConfig struct {
	Origin               string   `mapstructure:"origin"`
	APIOrigin            string   `mapstructure:"api_origin"`
	Version              string   `mapstructure:"version"`
	CachePrefix          string   `mapstructure:"cache_prefix"`
	APIPathPrefix        string   `mapstructure:"api_path_prefix"`
	StationsPath         string   `mapstructure:"stations_path"`
	Precache             []string `mapstructure:"precache"`
	OfflineDocument      string   `mapstructure:"offline_document"`
	SkipWaitingOnInstall bool     `mapstructure:"skip_waiting_on_install"`
	Manifest             string   `mapstructure:"manifest"`
}

type RemoteConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	FavoritesPath string        `mapstructure:"favorites_path"`
	StationsPath  string        `mapstructure:"stations_path"`
	AuthPath      string        `mapstructure:"auth_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type APIConfig struct {
	Listen  string `mapstructure:"listen"`
	Version string `mapstructure:"version"`
}

type ProxyConfig struct {
	Listen string `mapstructure:"listen"`
	// URL is where clients reach a running proxy's control endpoints.
	URL string `mapstructure:"url"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(logCtx, v)

	v.SetEnvPrefix("TANKGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if strings.TrimSpace(cfg.Worker.Origin) == "" {
		return Config{}, errors.New("worker.origin is required")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("worker_origin", cfg.Worker.Origin),
		slog.String("worker_version", cfg.Worker.Version),
	)

	return cfg, nil
}

func setDefaults(ctx context.Context, v *viper.Viper) {
	if ctx == nil {
		return
	}

	v.SetDefault("app.name", "tankgo")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".tankgo/state/tankgo.sqlite")
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("worker.origin", "http://localhost:5173")
	v.SetDefault("worker.api_origin", "http://localhost:8080")
	v.SetDefault("worker.version", "v1")
	v.SetDefault("worker.cache_prefix", "tankgo")
	v.SetDefault("worker.api_path_prefix", "/api/")
	v.SetDefault("worker.stations_path", "/api/gasolineras")
	v.SetDefault("worker.offline_document", "/index.html")
	v.SetDefault("worker.skip_waiting_on_install", true)

	v.SetDefault("remote.base_url", "http://localhost:8080")
	v.SetDefault("remote.favorites_path", "/api/usuarios/favoritos")
	v.SetDefault("remote.stations_path", "/api/gasolineras")
	v.SetDefault("remote.auth_path", "/api/usuarios")
	v.SetDefault("remote.timeout", 10*time.Second)

	v.SetDefault("auth.token_ttl", 7*24*time.Hour)

	v.SetDefault("api.listen", ":8080")
	v.SetDefault("api.version", "1.0.0")

	v.SetDefault("proxy.listen", ":5180")
	v.SetDefault("proxy.url", "http://localhost:5180")

	v.SetDefault("health.timeout", 3*time.Second)
}
