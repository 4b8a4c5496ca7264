package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/sentiment"
)

const pauseDots = 3

func (c *Controller) renderGenres() {
	var b strings.Builder
	b.WriteString("\nAvailable Genres:")
	for i, g := range c.genres {
		fmt.Fprintf(&b, " %d. %s", i+1, g)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 50))
	fmt.Fprintln(c.out, b.String())
}

func (c *Controller) renderRecommendations(recs []domain.Recommendation) {
	fmt.Fprintf(c.out, "\nMovie recommendations for %s:\n", c.state.Name)
	for i, r := range recs {
		fmt.Fprintln(c.out, formatRecommendation(i+1, r))
	}
}

func formatRecommendation(n int, r domain.Recommendation) string {
	return fmt.Sprintf("%d. %s | Genre: %s | Rating: %.1f (Polarity: %.2f, Sentiment: %s)",
		n, r.Title, r.Genre, r.Rating, r.Polarity, moodLabel(sentiment.Categorize(r.Polarity)))
}

func moodLabel(m domain.MoodCategory) string {
	switch m {
	case domain.MoodPositive:
		return "Positive"
	case domain.MoodNegative:
		return "Negative"
	default:
		return "Neutral"
	}
}

// pause prints label followed by a slow row of dots. It does no work.
func (c *Controller) pause(ctx context.Context, label string) error {
	fmt.Fprint(c.out, "\n"+label)
	for range pauseDots {
		if c.opts.Delay > 0 {
			t := time.NewTimer(c.opts.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				fmt.Fprintln(c.out)
				return ctx.Err()
			case <-t.C:
			}
		}
		fmt.Fprint(c.out, ".")
	}
	fmt.Fprintln(c.out)
	return nil
}
