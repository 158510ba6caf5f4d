package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaptrace/knaptrace/internal/server"
	"github.com/knaptrace/knaptrace/pkg/cache"
	"github.com/knaptrace/knaptrace/pkg/pipeline"
	"github.com/knaptrace/knaptrace/pkg/store"
)

// Backend names for the serve command flags.
const (
	storeMemory = "memory"
	storeMongo  = "mongo"

	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string // listen address
	storeKind   string // report store backend: memory, mongo
	mongoURI    string // MongoDB connection string
	mongoDB     string // MongoDB database name
	cacheKind   string // result cache backend: none, file, redis
	redisAddr   string // Redis server address
	cachePrefix string // key prefix for shared cache backends
	maxItems    int    // per-request item cap for solve requests
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      server.DefaultAddr,
		storeKind: storeMemory,
		mongoDB:   "knaptrace",
		cacheKind: cacheFile,
		redisAddr: "localhost:6379",
		maxItems:  server.DefaultMaxItems,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server solves submitted problems, stores their reports, and serves
stored reports in every output format. Reports live in memory by default
and in MongoDB with --store mongo; solve results are cached in the local
file cache by default and in Redis with --cache redis so multiple server
processes share entries.`,
		Example: `  # In-memory store, local file cache
  knaptrace serve

  # Durable reports and a shared cache
  knaptrace serve --store mongo --mongo-uri mongodb://localhost:27017 \
    --cache redis --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeKind, "store", opts.storeKind, "report store backend: memory (default), mongo")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string (required with --store mongo)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.cacheKind, "cache", opts.cacheKind, "result cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "Redis server address")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", "", "cache key prefix, for deployments sharing one Redis")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", opts.maxItems, "max items per solve request (-1 = unlimited)")

	return cmd
}

// runServe builds the configured backends and runs the server until ctx
// is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, err := c.newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	cch, err := c.newServeCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.cachePrefix)
	}
	runner := pipeline.NewRunner(cch, keyer, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:     opts.addr,
		Store:    st,
		Runner:   runner,
		Logger:   c.Logger,
		MaxItems: opts.maxItems,
	})

	c.Logger.Info("starting server",
		"addr", opts.addr,
		"store", opts.storeKind,
		"cache", opts.cacheKind)
	prog := newProgress(c.Logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	prog.done("Server stopped")
	return nil
}

// newStore builds the report store backend.
func (c *CLI) newStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.storeKind {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeMongo:
		st, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:      opts.mongoURI,
			Database: opts.mongoDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store: %s (must be 'memory' or 'mongo')", opts.storeKind)
	}
}

// newServeCache builds the result cache backend.
func (c *CLI) newServeCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cacheKind {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheFile:
		return newFileCache(false)
	case cacheRedis:
		cch, err := cache.NewRedisCache(ctx, opts.redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return cch, nil
	default:
		return nil, fmt.Errorf("unknown cache: %s (must be 'file', 'redis', or 'none')", opts.cacheKind)
	}
}
