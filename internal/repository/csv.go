package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/logging"
)

// Column headers of the IMDB top-1000 export.
const (
	ColumnTitle       = "Series_Title"
	ColumnGenre       = "Genre"
	ColumnDescription = "Overview"
	ColumnRating      = "IMDB_Rating"
)

// LoadCSV reads a catalog file. Any failure to open or parse the file is
// reported as domain.ErrCatalogUnavailable.
func LoadCSV(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// ReadCSV parses catalog rows, locating columns by header name. Rows whose
// rating does not parse are skipped; a missing title, genre or description
// cell is read as empty.
func ReadCSV(r io.Reader) ([]domain.Entry, error) {
	log := logging.Component("catalog")

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty catalog file", domain.ErrCatalogUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrCatalogUnavailable, err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrCatalogUnavailable, line, err)
		}

		ratingText := strings.TrimSpace(cell(record, cols[ColumnRating]))
		rating, err := strconv.ParseFloat(ratingText, 64)
		if err != nil {
			log.Warn().Int("line", line).Str("rating", ratingText).Msg("skipping row with invalid rating")
			continue
		}

		entries = append(entries, domain.NewEntry(
			strings.TrimSpace(cell(record, cols[ColumnTitle])),
			cell(record, cols[ColumnGenre]),
			cell(record, cols[ColumnDescription]),
			rating,
		))
	}
	return entries, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		// tolerate a UTF-8 BOM on the first header
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	for _, required := range []string{ColumnTitle, ColumnGenre, ColumnDescription, ColumnRating} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrCatalogUnavailable, required)
		}
	}
	return cols, nil
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
