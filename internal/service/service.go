package service

import (
	"context"
	"errors"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/catalog"
	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/engine"
	"github.com/actuallystonmai/moodpicks/internal/logging"
	"github.com/actuallystonmai/moodpicks/internal/metrics"
	"github.com/actuallystonmai/moodpicks/internal/sentiment"
)

// PolarityCache persists description scores between runs. *cache.Cache
// satisfies it.
type PolarityCache interface {
	GetMany(ctx context.Context, texts []string) (map[string]float64, error)
	SetMany(ctx context.Context, scores map[string]float64) error
}

type Service struct {
	catalog *catalog.Catalog
	engine  *engine.Engine
	scorer  *sentiment.Memo
	cache   PolarityCache
}

// NewService wires the engine to the memoized scorer it was built with. cache
// may be nil, which disables persistence of scores.
func NewService(cat *catalog.Catalog, eng *engine.Engine, scorer *sentiment.Memo, cache PolarityCache) *Service {
	return &Service{
		catalog: cat,
		engine:  eng,
		scorer:  scorer,
		cache:   cache,
	}
}

type WarmStats struct {
	Descriptions int
	CacheHits    int
	Scored       int
}

// Warm scores every catalog description up front, reusing cached scores and
// writing back the new ones. Cache failures are logged, never returned.
func (s *Service) Warm(ctx context.Context) (WarmStats, error) {
	log := logging.Component("service")
	metrics.CatalogEntries.Set(float64(s.catalog.Len()))

	texts := uniqueDescriptions(s.catalog.Entries())
	stats := WarmStats{Descriptions: len(texts)}

	if s.cache != nil {
		found, err := s.cache.GetMany(ctx, texts)
		if err != nil {
			log.Warn().Err(err).Msg("polarity cache read failed")
			metrics.PolarityCacheLookups.WithLabelValues("error").Inc()
		} else {
			for text, p := range found {
				s.scorer.Seed(text, p)
			}
			stats.CacheHits = len(found)
			metrics.PolarityCacheLookups.WithLabelValues("hit").Add(float64(len(found)))
		}
	}

	fresh := make(map[string]float64)
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if s.scorer.Known(text) {
			continue
		}
		fresh[text] = s.scorer.Polarity(text)
	}
	stats.Scored = len(fresh)

	if s.cache != nil && len(fresh) > 0 {
		metrics.PolarityCacheLookups.WithLabelValues("miss").Add(float64(len(fresh)))
		if err := s.cache.SetMany(ctx, fresh); err != nil {
			log.Warn().Err(err).Msg("polarity cache write failed")
		}
	}

	log.Info().
		Int("descriptions", stats.Descriptions).
		Int("cache_hits", stats.CacheHits).
		Int("scored", stats.Scored).
		Msg("catalog polarity warmed")
	return stats, nil
}

// Recommend runs one engine query and records its outcome.
func (s *Service) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	recs, err := s.engine.Recommend(req)
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())

	metrics.RecommendationsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		metrics.RecommendationsReturned.Observe(float64(len(recs)))
	}

	log := logging.Component("service")
	log.Debug().
		Str("genre", req.Genre).
		Int("returned", len(recs)).
		AnErr("reason", err).
		Msg("recommend")
	return recs, err
}

// Classify scores free text and maps it to a mood.
func (s *Service) Classify(text string) (float64, domain.MoodCategory) {
	p := s.scorer.Polarity(text)
	return p, sentiment.Categorize(p)
}

func (s *Service) Genres() []string {
	return s.catalog.Vocabulary()
}

func (s *Service) CatalogSize() int {
	return s.catalog.Len()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrUnrecognizedGenre):
		return metrics.OutcomeUnrecognizedGenre
	case errors.Is(err, domain.ErrNoRecommendations):
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeError
	}
}

func uniqueDescriptions(entries []domain.Entry) []string {
	seen := make(map[string]bool, len(entries))
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e.Description] {
			continue
		}
		seen[e.Description] = true
		texts = append(texts, e.Description)
	}
	return texts
}
