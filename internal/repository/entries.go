package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/moodpicks/internal/domain"
)

// LoadEntries reads the whole catalog table in insertion order.
func (r *Repository) LoadEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT title, COALESCE(genre, ''), COALESCE(description, ''), rating
		FROM catalog_entries
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query catalog entries: %w", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var title, genre, description string
		var rating float64
		if err := rows.Scan(&title, &genre, &description, &rating); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, domain.NewEntry(title, genre, description, rating))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate catalog entries: %w", domain.ErrCatalogUnavailable, err)
	}
	return entries, nil
}

// CountEntries returns the number of rows in the catalog table.
func (r *Repository) CountEntries(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM catalog_entries`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count catalog entries: %w", err)
	}
	return total, nil
}
