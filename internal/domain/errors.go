package domain

import "errors"

var (
	// ErrUnrecognizedGenre is returned when a requested genre is not in the vocabulary.
	ErrUnrecognizedGenre = errors.New("genre not recognized")
	// ErrNoRecommendations is the empty result: filters were valid but nothing was admitted.
	ErrNoRecommendations = errors.New("no recommendations found")
	// ErrCatalogUnavailable means the catalog source could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
