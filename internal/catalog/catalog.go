package catalog

import (
	"slices"
	"sort"
	"strings"

	"github.com/actuallystonmai/moodpicks/internal/domain"
)

// Catalog is an immutable set of entries plus the genre vocabulary derived
// from them. It is safe for concurrent reads.
type Catalog struct {
	entries    []domain.Entry
	vocabulary []string
}

func New(entries []domain.Entry) *Catalog {
	owned := slices.Clone(entries)

	raw := make([]string, 0, len(owned))
	for _, e := range owned {
		raw = append(raw, e.Genre)
	}

	return &Catalog{
		entries:    owned,
		vocabulary: BuildVocabulary(raw),
	}
}

// BuildVocabulary returns the sorted, de-duplicated genre labels found in the
// given raw comma-separated genre fields. Label case is preserved.
func BuildVocabulary(rawGenres []string) []string {
	seen := make(map[string]struct{})
	for _, raw := range rawGenres {
		for _, label := range domain.SplitGenres(raw) {
			seen[label] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(seen))
	for label := range seen {
		vocab = append(vocab, label)
	}
	sort.Strings(vocab)
	return vocab
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of every entry in load order.
func (c *Catalog) Entries() []domain.Entry {
	return slices.Clone(c.entries)
}

// Vocabulary returns a copy of the sorted genre labels.
func (c *Catalog) Vocabulary() []string {
	return slices.Clone(c.vocabulary)
}

// IsKnownGenre reports whether genre case-insensitively equals a vocabulary label.
func (c *Catalog) IsKnownGenre(genre string) bool {
	for _, label := range c.vocabulary {
		if strings.EqualFold(label, genre) {
			return true
		}
	}
	return false
}

// Filter returns the entries for which keep reports true, in load order.
func (c *Catalog) Filter(keep func(domain.Entry) bool) []domain.Entry {
	out := make([]domain.Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
