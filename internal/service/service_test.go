package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/actuallystonmai/moodpicks/internal/catalog"
	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/engine"
	"github.com/actuallystonmai/moodpicks/internal/metrics"
	"github.com/actuallystonmai/moodpicks/internal/sentiment"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCache struct {
	mu      sync.Mutex
	scores  map[string]float64
	getErr  error
	setErr  error
	written map[string]float64
}

func (f *fakeCache) GetMany(ctx context.Context, texts []string) (map[string]float64, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := map[string]float64{}
	for _, t := range texts {
		if p, ok := f.scores[t]; ok {
			out[t] = p
		}
	}
	return out, nil
}

func (f *fakeCache) SetMany(ctx context.Context, scores map[string]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.written == nil {
		f.written = map[string]float64{}
	}
	for k, v := range scores {
		f.written[k] = v
	}
	return f.setErr
}

type countingScorer struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingScorer) Polarity(text string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[text]++
	switch text {
	case "joy":
		return 0.6
	case "gloom":
		return -0.4
	}
	return 0
}

func newTestService(cache PolarityCache) (*Service, *countingScorer) {
	cat := catalog.New([]domain.Entry{
		domain.NewEntry("A", "Drama", "joy", 8.0),
		domain.NewEntry("B", "Comedy", "gloom", 7.5),
		domain.NewEntry("C", "Drama", "joy", 7.2),
		domain.NewEntry("D", "Horror", "", 7.9),
	})
	scorer := &countingScorer{}
	memo := sentiment.NewMemo(scorer)
	return NewService(cat, engine.New(cat, memo), memo, cache), scorer
}

func TestWarmWithoutCache(t *testing.T) {
	svc, scorer := newTestService(nil)

	stats, err := svc.Warm(context.Background())
	if err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	if stats.Descriptions != 3 || stats.Scored != 3 || stats.CacheHits != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if scorer.calls["joy"] != 1 {
		t.Errorf("shared description should be scored once, got %d", scorer.calls["joy"])
	}

	// recommendations reuse the warmed scores
	if _, err := svc.Recommend(context.Background(), domain.RecommendationRequest{TopN: 5}); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if scorer.calls["joy"] != 1 || scorer.calls["gloom"] != 1 {
		t.Errorf("engine rescored warmed descriptions: %v", scorer.calls)
	}
}

func TestWarmUsesCache(t *testing.T) {
	cache := &fakeCache{scores: map[string]float64{"joy": 0.9}}
	svc, scorer := newTestService(cache)

	stats, err := svc.Warm(context.Background())
	if err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	if stats.CacheHits != 1 || stats.Scored != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if scorer.calls["joy"] != 0 {
		t.Error("cached description should not be rescored")
	}
	if _, ok := cache.written["gloom"]; !ok {
		t.Errorf("fresh scores should be written back, got %v", cache.written)
	}
	if _, ok := cache.written["joy"]; ok {
		t.Error("cached scores should not be written again")
	}

	p, _ := svc.Classify("joy")
	if p != 0.9 {
		t.Errorf("expected cached polarity 0.9, got %f", p)
	}
}

func TestWarmIgnoresCacheErrors(t *testing.T) {
	cache := &fakeCache{getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
	svc, _ := newTestService(cache)

	before := testutil.ToFloat64(metrics.PolarityCacheLookups.WithLabelValues("error"))

	stats, err := svc.Warm(context.Background())
	if err != nil {
		t.Fatalf("cache errors must not fail warm-up: %v", err)
	}
	if stats.Scored != 3 {
		t.Errorf("expected every description scored, got %+v", stats)
	}
	if got := testutil.ToFloat64(metrics.PolarityCacheLookups.WithLabelValues("error")); got != before+1 {
		t.Errorf("expected cache error counted, got %v -> %v", before, got)
	}
}

func TestWarmCanceled(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Warm(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRecommendOutcomeMetrics(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	counter := func(outcome string) float64 {
		return testutil.ToFloat64(metrics.RecommendationsTotal.WithLabelValues(outcome))
	}
	ok, unknown, empty := counter(metrics.OutcomeOK), counter(metrics.OutcomeUnrecognizedGenre), counter(metrics.OutcomeEmpty)

	if _, err := svc.Recommend(ctx, domain.RecommendationRequest{Genre: "Drama", TopN: 5}); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if _, err := svc.Recommend(ctx, domain.RecommendationRequest{Genre: "Western"}); !errors.Is(err, domain.ErrUnrecognizedGenre) {
		t.Fatalf("expected ErrUnrecognizedGenre, got %v", err)
	}
	positive := domain.MoodPositive
	if _, err := svc.Recommend(ctx, domain.RecommendationRequest{Genre: "Horror", Mood: &positive}); !errors.Is(err, domain.ErrNoRecommendations) {
		t.Fatalf("expected ErrNoRecommendations, got %v", err)
	}

	if counter(metrics.OutcomeOK) != ok+1 {
		t.Error("ok outcome not counted")
	}
	if counter(metrics.OutcomeUnrecognizedGenre) != unknown+1 {
		t.Error("unrecognized genre outcome not counted")
	}
	if counter(metrics.OutcomeEmpty) != empty+1 {
		t.Error("empty outcome not counted")
	}
}

func TestRecommendCanceled(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Recommend(ctx, domain.RecommendationRequest{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClassifyAndGenres(t *testing.T) {
	svc, _ := newTestService(nil)

	p, mood := svc.Classify("gloom")
	if p != -0.4 || mood != domain.MoodNegative {
		t.Errorf("Classify(gloom) = %f %s", p, mood)
	}

	_, mood = svc.Classify("")
	if mood != domain.MoodNeutral {
		t.Errorf("empty mood text should be neutral, got %s", mood)
	}

	genres := svc.Genres()
	if len(genres) != 3 || genres[0] != "Comedy" {
		t.Errorf("unexpected genres %v", genres)
	}
	if svc.CatalogSize() != 4 {
		t.Errorf("expected 4 entries, got %d", svc.CatalogSize())
	}
}
