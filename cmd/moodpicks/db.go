package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/config"
	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/logging"
	"github.com/actuallystonmai/moodpicks/internal/repository"
	"github.com/actuallystonmai/moodpicks/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
)

type database struct {
	pool *pgxpool.Pool
}

// withPool opens a PostgreSQL pool, waits for it to answer and runs fn.
func withPool(ctx context.Context, cfg *config.Config, fn func(context.Context, *database) error) error {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("%w: parse database config: %w", domain.ErrCatalogUnavailable, err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("%w: connect to database: %w", domain.ErrCatalogUnavailable, err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	log := logging.Component("db")
	log.Info().Msg("connected to PostgreSQL")

	return fn(ctx, &database{pool: pool})
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.Component("db")
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info().Msgf("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func (db *database) migrateUp(ctx context.Context, dir string) error {
	if err := db.execFile(ctx, filepath.Join(dir, "create_tables.up.sql")); err != nil {
		return err
	}
	log := logging.Component("db")
	log.Info().Msg("migrations applied successfully")
	return nil
}

func (db *database) migrateDown(ctx context.Context, dir string) error {
	if err := db.execFile(ctx, filepath.Join(dir, "create_tables.down.sql")); err != nil {
		return err
	}
	log := logging.Component("db")
	log.Info().Msg("migrations dropped successfully")
	return nil
}

func (db *database) execFile(ctx context.Context, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := db.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// seed applies the schema and replaces the table contents with the CSV
// catalog at cfg.CatalogPath.
func (db *database) seed(ctx context.Context, cfg *config.Config) error {
	log := logging.Component("db")

	if err := db.migrateUp(ctx, cfg.MigrationsDir); err != nil {
		return err
	}

	entries, err := repository.LoadCSV(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s has no rows", domain.ErrCatalogUnavailable, cfg.CatalogPath)
	}

	before, err := repository.New(db.pool).CountEntries(ctx)
	if err != nil {
		return err
	}
	if before > 0 {
		log.Info().Int("rows", before).Msg("replacing existing catalog")
	}

	if err := seeds.Setup(ctx, db.pool, entries); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info().Int("entries", len(entries)).Msg("catalog seeded")
	return nil
}
