package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/actuallystonmai/moodpicks/internal/domain"
)

type fakeRecommender struct {
	genres   []string
	moods    map[string]float64
	recs     []domain.Recommendation
	err      error
	requests []domain.RecommendationRequest
}

func (f *fakeRecommender) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

func (f *fakeRecommender) Classify(text string) (float64, domain.MoodCategory) {
	p := f.moods[text]
	switch {
	case p > 0:
		return p, domain.MoodPositive
	case p < 0:
		return p, domain.MoodNegative
	}
	return 0, domain.MoodNeutral
}

func (f *fakeRecommender) Genres() []string {
	return f.genres
}

func newFake() *fakeRecommender {
	return &fakeRecommender{
		genres: []string{"Comedy", "Drama", "Romance"},
		moods:  map[string]float64{"great day": 0.62, "awful week": -0.55},
		recs: []domain.Recommendation{
			{Title: "Amelie", Genre: "Comedy, Romance", Rating: 8.3, Polarity: 0.42},
			{Title: "Up", Genre: "Animation, Comedy", Rating: 8.2, Polarity: -0.1},
		},
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Delay = 0
	return opts
}

func run(t *testing.T, rec Recommender, script string) (*Controller, string, error) {
	t.Helper()
	var out bytes.Buffer
	c := NewController(rec, strings.NewReader(script), &out, testOptions())
	err := c.Run(context.Background())
	return c, out.String(), err
}

func TestHappyPath(t *testing.T) {
	fake := newFake()

	c, out, err := run(t, fake, "Sam\n2\ngreat day\nskip\nno\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if c.State().Stage != StageTerminate {
		t.Errorf("expected terminate stage, got %s", c.State().Stage)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("expected one query, got %d", len(fake.requests))
	}

	req := fake.requests[0]
	if req.Genre != "Drama" {
		t.Errorf("expected Drama, got %q", req.Genre)
	}
	if req.Mood == nil || *req.Mood != domain.MoodPositive {
		t.Errorf("expected positive mood, got %v", req.Mood)
	}
	if req.MinRating != nil {
		t.Errorf("skip should leave rating unset, got %v", *req.MinRating)
	}
	if req.TopN != 5 {
		t.Errorf("expected top 5, got %d", req.TopN)
	}

	for _, want := range []string{
		"Great to meet you, Sam!",
		"Available Genres: 1. Comedy 2. Drama 3. Romance",
		"Mood detected: Positive (Polarity: 0.62)",
		"1. Amelie | Genre: Comedy, Romance | Rating: 8.3 (Polarity: 0.42, Sentiment: Positive)",
		"2. Up | Genre: Animation, Comedy | Rating: 8.2 (Polarity: -0.10, Sentiment: Negative)",
		"Enjoy your movie picks, Sam!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRetriesAndRepeat(t *testing.T) {
	fake := newFake()
	script := strings.Join([]string{
		"",      // blank name
		"Sam",   //
		"9",     // index out of range
		"noir",  // no label contains it
		"rom",   // substring match
		"",      // empty mood is neutral
		"abc",   // not a number
		"6.5",   // below range
		"9.4",   // above range
		"7.5",   // accepted
		"maybe", // invalid choice
		"YES",   // same query again
		"yes",   //
		"no",
	}, "\n") + "\n"

	c, out, err := run(t, fake, script)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(fake.requests) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(fake.requests))
	}
	first := fake.requests[0]
	for i, req := range fake.requests[1:] {
		if req.Genre != first.Genre || *req.Mood != *first.Mood || *req.MinRating != *first.MinRating || req.TopN != first.TopN {
			t.Errorf("repeat %d changed the request: %+v vs %+v", i+1, req, first)
		}
	}

	if first.Genre != "Romance" {
		t.Errorf("expected Romance, got %q", first.Genre)
	}
	if *first.Mood != domain.MoodNeutral {
		t.Errorf("expected neutral mood, got %s", *first.Mood)
	}
	if *first.MinRating != 7.5 {
		t.Errorf("expected rating 7.5, got %v", *first.MinRating)
	}

	st := c.State()
	if st.Name != "Sam" || st.Genre != "Romance" || st.Stage != StageTerminate {
		t.Errorf("unexpected final state %+v", st)
	}

	counts := map[string]int{
		"Please tell me your name.":       1,
		"Invalid input. Try again.":       3, // two genre tries, one rating
		"Rating out of range. Try again.": 2,
		"Invalid choice. Try again.":      1,
		"Available Genres:":               1, // listed once, not on every retry
		"Movie recommendations for Sam:":  3,
	}
	for text, want := range counts {
		if got := strings.Count(out, text); got != want {
			t.Errorf("%q appears %d times, want %d", text, got, want)
		}
	}
}

func TestNegativeMood(t *testing.T) {
	fake := newFake()

	if _, _, err := run(t, fake, "Kim\ncomedy\nawful week\n9.3\nno\n"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	req := fake.requests[0]
	if *req.Mood != domain.MoodNegative {
		t.Errorf("expected negative mood, got %s", *req.Mood)
	}
	if *req.MinRating != 9.3 {
		t.Errorf("upper bound should be accepted, got %v", *req.MinRating)
	}
}

func TestNoResultsMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		not  string
	}{
		{"empty", domain.ErrNoRecommendations, "No recommendations found.", "not recognized"},
		{"unknown genre", domain.ErrUnrecognizedGenre, `Error: genre "Drama" is not recognized.`, "No recommendations found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake()
			fake.err = tt.err

			_, out, err := run(t, fake, "Sam\nDrama\nok\nskip\nno\n")
			if err != nil {
				t.Fatalf("no-result outcomes must not end the session: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q\n%s", tt.want, out)
			}
			if strings.Contains(out, tt.not) {
				t.Errorf("output should not contain %q", tt.not)
			}
		})
	}
}

func TestUnexpectedRecommendError(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("boom")

	_, _, err := run(t, fake, "Sam\nDrama\nok\nskip\nno\n")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected wrapped boom error, got %v", err)
	}
}

func TestInputClosed(t *testing.T) {
	fake := newFake()

	c, _, err := run(t, fake, "Sam\n2\n")
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
	if c.State().Stage != StageCollectMood {
		t.Errorf("expected to stop in collect_mood, got %s", c.State().Stage)
	}
	if len(fake.requests) != 0 {
		t.Error("no query should run before the dialogue completes")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := NewController(newFake(), strings.NewReader("Sam\n"), &out, testOptions())
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStateRequestCopiesRating(t *testing.T) {
	r := 8.0
	st := State{Genre: "Drama", Mood: domain.MoodNeutral, MinRating: &r}

	req := st.Request(5)
	*req.MinRating = 1

	if *st.MinRating != 8.0 {
		t.Error("request must not alias the stored rating")
	}
	if st.Request(5).Mood == nil {
		t.Error("a collected mood should be set on the request")
	}
	if (State{}).Request(5).Mood != nil {
		t.Error("an uncollected mood should be absent")
	}
}

func TestStageString(t *testing.T) {
	if StageOfferRepeat.String() != "offer_repeat" {
		t.Errorf("unexpected %s", StageOfferRepeat)
	}
	if Stage(42).String() != "unknown" {
		t.Errorf("unexpected %s", Stage(42))
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	var out bytes.Buffer
	a := NewController(newFake(), strings.NewReader(""), &out, testOptions())
	b := NewController(newFake(), strings.NewReader(""), &out, testOptions())

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID(), b.ID())
	}
}

func TestLongMoodLine(t *testing.T) {
	fake := newFake()
	mood := strings.Repeat("happy ", 20000)
	fake.moods[mood] = 0.9

	c, _, err := run(t, fake, "Sam\n2\n"+mood+"\nskip\nno\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if c.State().Stage != StageTerminate {
		t.Errorf("expected terminate, got %s", c.State().Stage)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("expected one query, got %d", len(fake.requests))
	}
	if m := fake.requests[0].Mood; m == nil || *m != domain.MoodPositive {
		t.Errorf("expected the long line to classify positive, got %v", m)
	}
}

func TestLastLineWithoutNewline(t *testing.T) {
	fake := newFake()

	c, _, err := run(t, fake, "Sam\r\nDrama\r\nok\r\nskip\r\nno")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if c.State().Stage != StageTerminate || c.State().Name != "Sam" {
		t.Errorf("unexpected final state %+v", c.State())
	}
}
