package seeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

// batchSize keeps each INSERT well under the 65535 bind parameter limit.
const batchSize = 500

// Setup replaces the catalog table contents with entries.
func Setup(ctx context.Context, pool *pgxpool.Pool, entries []domain.Entry) error {
	log := logging.Component("seed")

	// Truncate existing data before insert
	log.Info().Msg("truncating existing catalog")
	if _, err := pool.Exec(ctx, `
		TRUNCATE catalog_entries RESTART IDENTITY
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	unique := dedupeTitles(entries)
	if skipped := len(entries) - len(unique); skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("dropping entries with duplicate titles")
	}

	log.Info().Int("entries", len(unique)).Msg("inserting catalog")
	for start := 0; start < len(unique); start += batchSize {
		end := min(start+batchSize, len(unique))
		if err := insertBatch(ctx, pool, unique[start:end]); err != nil {
			return fmt.Errorf("seed catalog rows %d-%d: %w", start, end, err)
		}
	}

	log.Info().Msg("seeding complete")
	return nil
}

func insertBatch(ctx context.Context, pool *pgxpool.Pool, batch []domain.Entry) error {
	query, args := buildInsert(batch)
	if query == "" {
		return nil
	}
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func buildInsert(batch []domain.Entry) (string, []any) {
	rows := []string{}
	args := []any{}

	for _, e := range batch {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, e.Title, e.Genre, e.Description, e.Rating)
	}

	if len(rows) == 0 {
		return "", nil
	}

	query := "INSERT INTO catalog_entries (title, genre, description, rating) VALUES " +
		strings.Join(rows, ", ")
	return query, args
}

// dedupeTitles keeps the first entry for each title.
func dedupeTitles(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Title] {
			continue
		}
		seen[e.Title] = true
		out = append(out, e)
	}
	return out
}
