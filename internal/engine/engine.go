// Package engine selects recommendations from the catalog by genre, minimum
// rating and mood.
package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/actuallystonmai/moodpicks/internal/catalog"
	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/sentiment"
)

// DefaultTopN is the result cap used when a request does not set one.
const DefaultTopN = 5

type Engine struct {
	catalog *catalog.Catalog
	scorer  sentiment.Scorer
	shuffle func(n int, swap func(i, j int))
}

type Option func(*Engine)

// WithRand makes the engine shuffle with r. A *rand.Rand is not safe for
// concurrent use, so an engine built this way must not serve parallel calls.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.shuffle = r.Shuffle
	}
}

func New(cat *catalog.Catalog, scorer sentiment.Scorer, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		scorer:  scorer,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend filters the catalog by genre and rating, visits the survivors in a
// fresh random order and admits those whose description matches the requested
// mood, stopping at TopN.
//
// A genre that is not in the vocabulary yields domain.ErrUnrecognizedGenre.
// Valid filters that admit nothing yield domain.ErrNoRecommendations.
func (e *Engine) Recommend(req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	topN := req.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	if req.Genre != "" && !e.catalog.IsKnownGenre(req.Genre) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnrecognizedGenre, req.Genre)
	}

	candidates := e.catalog.Filter(func(entry domain.Entry) bool {
		return matchesGenre(entry, req.Genre) && meetsRating(entry, req.MinRating)
	})

	e.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	recs := make([]domain.Recommendation, 0, min(topN, len(candidates)))
	for _, entry := range candidates {
		polarity := e.scorer.Polarity(entry.Description)
		if !admits(req.Mood, polarity) {
			continue
		}
		recs = append(recs, domain.Recommendation{
			Title:    entry.Title,
			Genre:    entry.Genre,
			Rating:   entry.Rating,
			Polarity: polarity,
		})
		if len(recs) >= topN {
			break
		}
	}

	if len(recs) == 0 {
		return nil, domain.ErrNoRecommendations
	}
	return recs, nil
}

// matchesGenre is a substring test against the raw genre field, so "Com"
// matches "Comedy". Validation against the vocabulary happens first.
func matchesGenre(entry domain.Entry, genre string) bool {
	if genre == "" {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Genre), strings.ToLower(genre))
}

func meetsRating(entry domain.Entry, minRating *float64) bool {
	return minRating == nil || entry.Rating >= *minRating
}

// admits applies the mood gate. Neutral and absent moods admit every polarity.
func admits(mood *domain.MoodCategory, polarity float64) bool {
	if mood == nil {
		return true
	}
	switch *mood {
	case domain.MoodPositive:
		return polarity > 0
	case domain.MoodNegative:
		return polarity < 0
	default:
		return true
	}
}
