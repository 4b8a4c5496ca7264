// Package sentiment maps free text to a signed polarity score and the score
// to a mood category.
package sentiment

import (
	"math"
	"strings"
	"sync"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/jonreiter/govader"
)

// Scorer returns a polarity in [-1, 1] for text. Implementations must return
// the same score for the same text for their whole lifetime.
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Polarity(text string) float64 {
	return f(text)
}

// Vader scores text with the VADER compound score.
type Vader struct {
	mu  sync.Mutex
	sia *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	v.mu.Lock()
	scores := v.sia.PolarityScores(text)
	v.mu.Unlock()

	return clamp(scores.Compound)
}

// Categorize maps a polarity to its mood by sign alone.
func Categorize(polarity float64) domain.MoodCategory {
	switch {
	case polarity > 0:
		return domain.MoodPositive
	case polarity < 0:
		return domain.MoodNegative
	default:
		return domain.MoodNeutral
	}
}

func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(-1, math.Min(1, p))
}
