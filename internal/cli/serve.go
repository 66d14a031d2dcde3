package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bootorder/pkg/cache"
	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/server"
	"github.com/matzehuels/bootorder/pkg/store"
	"github.com/matzehuels/bootorder/pkg/store/mongo"
)

// shutdownTimeout bounds how long in-flight requests may take on exit.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr   string
	strict bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Plans are cached in Redis when cache.redis_addr is set and kept in a
bounded in-memory cache (cache.memory_mb) otherwise. Computed plans are stored in MongoDB when server.mongo_uri is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("strict") {
				opts.strict = c.Config.Schedule.Strict
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject cyclic manifests unless a request sets ?strict=false")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ch, err := c.serverCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cache.NewKeyer(c.Config.Cache.Prefix), c.Logger)
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		runner.TTL = ttl
	}
	defer runner.Close()

	st, err := c.serverStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := server.New(runner, st, c.Logger)
	srv.Strict = opts.strict
	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("listening", "addr", opts.addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *CLI) serverCache(ctx context.Context) (cache.Cache, error) {
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		c.Logger.Info("using redis cache", "addr", addr, "prefix", c.Config.Cache.Prefix)
		return cache.NewRedisCache(ctx, c.redisConfig())
	}
	c.Logger.Info("using memory cache", "size_mb", c.Config.Cache.MemoryMB)
	return cache.NewMemoryCache(c.Config.Cache.MemoryMB << 20), nil
}

func (c *CLI) serverStore(ctx context.Context) (store.Store, error) {
	if uri := c.Config.Server.MongoURI; uri != "" {
		c.Logger.Info("using mongo store", "database", c.Config.Server.MongoDatabase)
		return mongo.NewStore(ctx, mongo.Config{URI: uri, Database: c.Config.Server.MongoDatabase})
	}
	return store.NewMemoryStore(), nil
}
