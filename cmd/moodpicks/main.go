package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/cache"
	"github.com/actuallystonmai/moodpicks/internal/catalog"
	"github.com/actuallystonmai/moodpicks/internal/config"
	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/engine"
	"github.com/actuallystonmai/moodpicks/internal/handler"
	"github.com/actuallystonmai/moodpicks/internal/logging"
	"github.com/actuallystonmai/moodpicks/internal/repository"
	"github.com/actuallystonmai/moodpicks/internal/router"
	"github.com/actuallystonmai/moodpicks/internal/sentiment"
	"github.com/actuallystonmai/moodpicks/internal/service"
	"github.com/actuallystonmai/moodpicks/internal/session"
	"github.com/redis/go-redis/v9"
)

const usage = "usage: moodpicks [session|serve|migrate-up|migrate-down|seed|clear-cache]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logging.Error().Err(err).Msg("moodpicks failed")
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	command := "session"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "session", "serve":
	case "migrate-up":
		return withPool(ctx, cfg, func(ctx context.Context, db *database) error {
			return db.migrateUp(ctx, cfg.MigrationsDir)
		})
	case "migrate-down":
		return withPool(ctx, cfg, func(ctx context.Context, db *database) error {
			return db.migrateDown(ctx, cfg.MigrationsDir)
		})
	case "seed":
		return withPool(ctx, cfg, func(ctx context.Context, db *database) error {
			return db.seed(ctx, cfg)
		})
	case "clear-cache":
		return clearCache(ctx, cfg)
	default:
		return errors.New(usage)
	}

	entries, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	cat := catalog.New(entries)
	if cat.Len() == 0 {
		return fmt.Errorf("%w: catalog is empty", domain.ErrCatalogUnavailable)
	}

	svc, closeCache := buildService(ctx, cfg, cat)
	defer closeCache()

	if command == "serve" {
		return serve(ctx, cfg, svc)
	}

	ctrl := session.NewController(svc, stdin, stdout, session.Options{
		TopN:      cfg.TopN,
		RatingMin: cfg.RatingMin,
		RatingMax: cfg.RatingMax,
		Delay:     cfg.ProcessingDelay,
	})
	// Run blocks on stdin, so an interrupt must not wait for it.
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		return nil
	}
	if errors.Is(err, session.ErrInputClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadCatalog(ctx context.Context, cfg *config.Config) ([]domain.Entry, error) {
	if cfg.CatalogSource != config.SourcePostgres {
		return repository.LoadCSV(cfg.CatalogPath)
	}

	var entries []domain.Entry
	err := withPool(ctx, cfg, func(ctx context.Context, db *database) error {
		var err error
		entries, err = repository.New(db.pool).LoadEntries(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// buildService wires scorer, engine and the optional Redis polarity cache,
// then scores the catalog once. The returned func releases the cache.
func buildService(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (*service.Service, func()) {
	log := logging.Component("main")

	memo := sentiment.NewMemo(sentiment.NewVader())
	eng := engine.New(cat, memo)

	var polarityCache service.PolarityCache
	closeCache := func() {}
	if c := connectCache(ctx, cfg); c != nil {
		polarityCache = c
		closeCache = func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}
	}

	svc := service.NewService(cat, eng, memo, polarityCache)
	if _, err := svc.Warm(ctx); err != nil {
		log.Warn().Err(err).Msg("warm-up interrupted")
	}
	log.Info().Int("entries", svc.CatalogSize()).Int("genres", len(svc.Genres())).Msg("catalog ready")
	return svc, closeCache
}

// connectCache returns nil when Redis is not configured or unreachable.
func connectCache(ctx context.Context, cfg *config.Config) *cache.Cache {
	if cfg.RedisURL == "" {
		return nil
	}
	log := logging.Component("main")

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid redis url, running without polarity cache")
		return nil
	}
	c := cache.NewCache(redis.NewClient(opts), cfg.CacheTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, running without polarity cache")
		c.Close()
		return nil
	}
	log.Info().Msg("connected to Redis")
	return c
}

// clearCache drops every stored polarity so the next run rescores the catalog.
func clearCache(ctx context.Context, cfg *config.Config) error {
	c := connectCache(ctx, cfg)
	if c == nil {
		return errors.New("clear-cache needs a reachable REDIS_URL")
	}
	defer c.Close()

	if err := c.Clear(ctx); err != nil {
		return err
	}
	log := logging.Component("main")
	log.Info().Msg("polarity cache cleared")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, svc *service.Service) error {
	log := logging.Component("main")

	routes := router.Setup(handler.NewHandler(svc), router.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		RateLimit:      cfg.RateLimit,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           routes,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      35 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
