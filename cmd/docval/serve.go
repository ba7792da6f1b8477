package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/docval/pkg/api"
	"github.com/dmitrymomot/docval/pkg/config"
	"github.com/dmitrymomot/docval/pkg/environment"
	"github.com/dmitrymomot/docval/pkg/httpserver"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/metrics"
	"github.com/dmitrymomot/docval/pkg/redis"
	"github.com/dmitrymomot/docval/pkg/requestid"
	"github.com/dmitrymomot/docval/pkg/ruleset"
)

const serviceName = "docval"

// serveConfig is read from DOCVAL_-prefixed environment variables.
type serveConfig struct {
	Env       string `env:"ENV" envDefault:"development"`
	CacheSize int    `env:"CACHE_SIZE" envDefault:"128"` // Compiled validators kept in memory.

	HTTP     httpserver.Config
	API      api.Config
	Log      logger.Config
	Redis    redis.Config
	Rulesets ruleset.DirConfig
}

func newServeCmd() *cobra.Command {
	var envFiles []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve runs the HTTP API, configured from DOCVAL_* environment variables.

Rule sets are stored in Redis when DOCVAL_REDIS_URL is set, otherwise in the
directory named by DOCVAL_RULESETS_DIR (reloaded when its files change),
otherwise in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(envFiles) > 0 {
				if err := config.LoadEnv(envFiles...); err != nil {
					return usageError(err)
				}
			}
			var cfg serveConfig
			if err := config.LoadWithPrefix(&cfg, config.Prefix); err != nil {
				return usageError(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "load environment variables from these files first")
	return cmd
}

func newLogger(cfg serveConfig) (*slog.Logger, environment.Environment, error) {
	env, err := environment.Parse(cfg.Env)
	if err != nil {
		return nil, "", err
	}
	opts, err := cfg.Log.Options()
	if err != nil {
		return nil, "", err
	}
	opts = append(opts,
		logger.WithEnvironment(env, serviceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	return logger.New(opts...), env, nil
}

func runServe(ctx context.Context, cfg serveConfig) error {
	log, env, err := newLogger(cfg)
	if err != nil {
		return usageError(err)
	}

	var catalog *ruleset.Catalog
	backend, err := openStore(ctx, cfg, log, func(changed []string) {
		if catalog != nil {
			catalog.Invalidate(changed...)
		}
	})
	if err != nil {
		return err
	}
	defer backend.close()

	catalog = ruleset.NewCatalog(backend.store,
		ruleset.WithCacheSize(cfg.CacheSize),
		ruleset.WithCatalogLogger(log.With(logger.Component("catalog"))),
	)

	collector := metrics.New()
	if err := collector.RegisterCache("validators", catalog); err != nil {
		return err
	}

	handler := api.New(cfg.API, catalog,
		api.WithLogger(log),
		api.WithMetrics(collector),
		api.WithEnvironment(env),
	)

	g, ctx := errgroup.WithContext(ctx)
	if backend.dir != nil {
		g.Go(func() error { return backend.dir.Watch(ctx) })
	}
	g.Go(func() error {
		return httpserver.New(cfg.HTTP, handler, httpserver.WithLogger(log)).Run(ctx)
	})
	return g.Wait()
}

type storeBackend struct {
	store ruleset.Store
	dir   *ruleset.DirStore
	close func()
}

// openStore picks Redis, then a watched directory, then memory.
func openStore(ctx context.Context, cfg serveConfig, log *slog.Logger, onReload func([]string)) (storeBackend, error) {
	switch {
	case cfg.Redis.Enabled():
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return storeBackend{}, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("using redis ruleset store", slog.String("prefix", cfg.Redis.KeyPrefix))
		return storeBackend{
			store: ruleset.NewRedisStore(client, cfg.Redis.KeyPrefix),
			close: func() { closeRedis(client, log) },
		}, nil

	case cfg.Rulesets.Dir != "":
		dir, err := ruleset.OpenDir(cfg.Rulesets,
			ruleset.WithDirLogger(log.With(logger.Component("ruleset_dir"))),
			ruleset.WithReloadHook(onReload),
		)
		if err != nil {
			return storeBackend{}, usageError(err)
		}
		return storeBackend{store: dir, dir: dir, close: func() {}}, nil

	default:
		log.Warn("no ruleset store configured, rule sets are kept in memory")
		mem, err := ruleset.NewMemoryStore()
		if err != nil {
			return storeBackend{}, err
		}
		return storeBackend{store: mem, close: func() {}}, nil
	}
}

func closeRedis(client goredis.UniversalClient, log *slog.Logger) {
	if err := client.Close(); err != nil {
		log.Warn("failed to close redis client", logger.Error(err))
	}
}
