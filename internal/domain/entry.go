package domain

import "strings"

type Entry struct {
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
}

// NewEntry keeps the raw comma-separated genre field and the parsed labels side by side.
func NewEntry(title, genre, description string, rating float64) Entry {
	return Entry{
		Title:       title,
		Genre:       genre,
		Genres:      SplitGenres(genre),
		Description: description,
		Rating:      rating,
	}
}

// SplitGenres splits a raw genre field on commas and trims each label.
// Empty pieces are dropped.
func SplitGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}
