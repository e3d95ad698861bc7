package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/comment-board/internal/cache"
	"github.com/evcraddock/comment-board/internal/comment"
	"github.com/evcraddock/comment-board/internal/config"
	"github.com/evcraddock/comment-board/internal/db"
	"github.com/evcraddock/comment-board/internal/events"
	"github.com/evcraddock/comment-board/internal/logging"
	"github.com/evcraddock/comment-board/internal/web"
)

// serveFlags holds the command-line overrides for serve.
type serveFlags struct {
	configPath string
	addr       string
	db         string
	driver     string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server exposing the comment list and create endpoints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "address to listen on (default :8080)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&flags.db, "db", "", "database path or DSN (default: ~/.config/cb/comments.db)")
	cmd.Flags().StringVar(&flags.driver, "driver", "", "database driver (sqlite3|mysql)")

	return cmd
}

// loadServeConfig loads server config and applies command-line overrides.
func loadServeConfig(flags serveFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.driver != "" {
		cfg.DBDriver = flags.driver
	}
	if flags.db != "" {
		cfg.DBDSN = flags.db
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer closeDB(database)

	var store comment.Store = comment.NewRepository(database)

	rdb := cache.Connect(cacheOptions(cfg))
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("closing redis client", "error", err)
			}
		}()
		store = cache.New(store, rdb, cfg.CachePrefix, cfg.CacheTTL)
		slog.Info("list cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	pub := events.New(cfg.AMQPURL, cfg.AMQPQueue)
	defer func() {
		if err := pub.Close(); err != nil {
			slog.Warn("closing event publisher", "error", err)
		}
	}()

	srv := web.NewServer(store, web.Options{
		Prefix:       cfg.APIPrefix,
		Location:     loc,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Publisher:    pub,
		Pinger:       database,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, cfg.Addr)
}

// cacheOptions maps the Redis settings of cfg onto cache.Options.
func cacheOptions(cfg config.Config) cache.Options {
	return cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TLS:      cfg.RedisTLS,
	}
}
