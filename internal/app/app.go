package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/klotho/internal/cli"
	"github.com/MrSnakeDoc/klotho/internal/config"
	"github.com/MrSnakeDoc/klotho/internal/database"
	"github.com/MrSnakeDoc/klotho/internal/httpserver"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/redis"
	"github.com/MrSnakeDoc/klotho/internal/repository"
	"github.com/MrSnakeDoc/klotho/internal/storage"
	"github.com/MrSnakeDoc/klotho/internal/utils"
	"github.com/MrSnakeDoc/klotho/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	db          *sql.DB
	redisClient *goredis.Client
	repo        repository.BookmarkRepository
	store       storage.Storage
	started     time.Time
}

// New connects the database and the attachment backend described by cfg.
// Both are required: the process fails fast if either is unavailable.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log, started: time.Now()}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := database.Open(ctx, database.ConnectOptions{
		Driver:       cfg.DBDriver,
		Path:         cfg.DBPath,
		MaxOpenConns: cfg.DBMaxOpenConns,
		BusyTimeout:  cfg.DBBusyTimeout,
		Retry:        cfg.RetryPolicy(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.repo = repository.NewSQLRepository(db)
	log.Info("database ready",
		logger.String("driver", cfg.DBDriver),
		logger.String("path", cfg.DBPath))

	if a.store, err = a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         a.cfg.RedisAddr,
			User:         a.cfg.RedisUser,
			Password:     a.cfg.RedisPassword,
			RedisDB:      a.cfg.RedisDB,
			DialTimeout:  a.cfg.RedisDT,
			ReadTimeout:  a.cfg.RedisRT,
			WriteTimeout: a.cfg.RedisWT,
			PoolSize:     a.cfg.RedisPoolSize,
			Retry:        a.cfg.RetryPolicy(),
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client

		store, err := storage.NewRedis(ctx, client, a.cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		a.logger.Info("attachment storage ready",
			logger.String("backend", config.BackendRedis),
			logger.String("addr", a.cfg.RedisAddr))
		return store, nil

	default:
		if err := os.MkdirAll(a.cfg.StorageDir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
		store, err := storage.NewLocalFilesystem(a.cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		a.logger.Info("attachment storage ready",
			logger.String("backend", config.BackendLocal),
			logger.String("dir", store.BaseDir()))
		return store, nil
	}
}

// Serve runs the HTTP API until ctx is cancelled, then shuts it down
// within cfg.ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	build := version.Get()
	a.logger.Infof("🚀 Starting %s on %s", build, a.cfg.ListenPort)

	d := deps.Deps{
		Logger:          a.logger,
		StartTime:       a.started,
		Build:           build,
		TimeNow:         time.Now,
		AllowedHosts:    a.cfg.AllowedHosts,
		AllowedCIDRS:    a.cfg.AllowedCIDRS,
		TrustProxy:      a.cfg.TrustProxy,
		CORSOrigins:     a.cfg.CORSOrigins,
		Repository:      a.repo,
		Storage:         a.store,
		MaxUploadBytes:  a.cfg.MaxUploadBytes,
		RateLimitBurst:  a.cfg.RateLimitBurst,
		RateLimitPerMin: a.cfg.RateLimitPerMin,
	}
	server := httpserver.New(a.cfg, a.logger, d)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}

// Exec runs a single CLI subcommand against the connected stores.
func (a *App) Exec(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return cli.Run(ctx, cli.Env{
		Repo:    a.repo,
		Storage: a.store,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Log:     a.logger,
	}, args)
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.redisClient != nil {
		utils.MustClose(a.redisClient, "redis", a.logger)
	}
	if a.db != nil {
		utils.MustClose(a.db, "database", a.logger)
	}
}

// Run is the process entrypoint: no arguments or "serve" starts the API,
// "version" prints build information, anything else is a CLI subcommand.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	name := "serve"
	if len(args) > 0 {
		name = args[0]
	}

	switch {
	case name == "version":
		_, err := fmt.Fprintln(stdout, version.Get())
		return err
	case name == "help" || name == "-h" || name == "--help":
		cli.Usage(stdout)
		return nil
	case name != "serve" && !cli.Known(name):
		cli.Usage(stderr)
		return fmt.Errorf("%w: unknown command %q", cli.ErrUsage, name)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()
	log.Debug("configuration loaded", logger.String("config", fmt.Sprintf("%+v", cfg.Redacted())))

	a, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if name == "serve" {
		if err := a.Serve(ctx); err != nil {
			return err
		}
		log.Info("✅ Klotho stopped cleanly")
		return nil
	}

	if err := a.Exec(ctx, args, stdin, stdout, stderr); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			log.Debug("command failed", logger.String("command", name), logger.Error(err))
		}
		return err
	}
	return nil
}
