package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridmesh/gridmesh/internal/server"
	"github.com/gridmesh/gridmesh/pkg/cache"
	"github.com/gridmesh/gridmesh/pkg/config"
	"github.com/gridmesh/gridmesh/pkg/pipeline"
	"github.com/gridmesh/gridmesh/pkg/store"
)

// shutdownTimeout bounds graceful shutdown on interrupt.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr   string // listen address; overrides config when non-empty
	config string // config file path
}

// newServeCmd creates the serve command, which runs the HTTP API.
//
// Backends are selected from the config file: the cache uses redis when
// cache.redis_addr is set (file cache otherwise), and persistence uses mongo
// when store.mongo_uri is set (in-memory otherwise).
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.config, "config", config.DefaultPath(), "config file path")

	return cmd
}

// runServe wires the backends, starts the server, and blocks until the
// context is cancelled or the listener fails.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	backend, err := buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(backend, nil)
	defer runner.Close()

	st, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(runner, st, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// buildCache selects the cache backend from config.
func buildCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	return cache.NewFileCache(cfg.CacheDir())
}

// buildStore selects the persistence backend from config.
func buildStore(ctx context.Context, cfg config.Config) (store.LayoutStore, error) {
	if cfg.Store.MongoURI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.Database,
		})
	}
	return store.NewMemoryStore(), nil
}
