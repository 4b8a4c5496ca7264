// Package session runs the interactive recommendation dialogue.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/actuallystonmai/moodpicks/internal/logging"
	"github.com/google/uuid"
)

// ErrInputClosed is returned by Run when input ends before the user says no.
var ErrInputClosed = errors.New("input closed")

// Recommender is the part of the service the dialogue needs.
type Recommender interface {
	Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error)
	Classify(text string) (float64, domain.MoodCategory)
	Genres() []string
}

type Options struct {
	TopN      int
	RatingMin float64
	RatingMax float64
	// Delay is the pause between each dot of a "processing" indicator.
	Delay time.Duration
}

func DefaultOptions() Options {
	return Options{
		TopN:      5,
		RatingMin: 7.0,
		RatingMax: 9.3,
		Delay:     500 * time.Millisecond,
	}
}

type Controller struct {
	id     string
	rec    Recommender
	in     *bufio.Reader
	out    io.Writer
	opts   Options
	genres []string
	state  State
}

func NewController(rec Recommender, in io.Reader, out io.Writer, opts Options) *Controller {
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}
	return &Controller{
		id:     uuid.NewString(),
		rec:    rec,
		in:     bufio.NewReader(in),
		out:    out,
		opts:   opts,
		genres: rec.Genres(),
		state:  State{Stage: StageCollectIdentity},
	}
}

// ID identifies the session in logs.
func (c *Controller) ID() string {
	return c.id
}

// State returns a copy of the dialogue state.
func (c *Controller) State() State {
	return c.state
}

// Run drives the dialogue until the user declines more recommendations.
func (c *Controller) Run(ctx context.Context) error {
	log := logging.Component("session").With().Str("session_id", c.id).Logger()
	log.Info().Msg("session started")
	fmt.Fprintln(c.out, "\nWelcome to your personal movie recommendation assistant!")

	for c.state.Stage != StageTerminate {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := c.step(ctx)
		if err != nil {
			return err
		}
		if next != c.state.Stage {
			log.Debug().Stringer("from", c.state.Stage).Stringer("to", next).Msg("transition")
			c.state.Stage = next
			c.enter(next)
		}
	}
	log.Info().Msg("session finished")
	return nil
}

func (c *Controller) step(ctx context.Context) (Stage, error) {
	switch c.state.Stage {
	case StageCollectIdentity:
		return c.collectIdentity()
	case StageCollectGenre:
		return c.collectGenre()
	case StageCollectMood:
		return c.collectMood(ctx)
	case StageCollectRating:
		return c.collectRating()
	case StageRecommend:
		return c.recommend(ctx)
	case StageOfferRepeat:
		return c.offerRepeat(ctx)
	default:
		return StageTerminate, nil
	}
}

// enter runs the one-off output of a stage, not repeated on retries.
func (c *Controller) enter(stage Stage) {
	if stage == StageCollectGenre {
		fmt.Fprintln(c.out, "\nLet's find the perfect movie for you!")
		c.renderGenres()
	}
}

func (c *Controller) collectIdentity() (Stage, error) {
	line, err := c.prompt("What's your name? ")
	if err != nil {
		return c.state.Stage, err
	}

	name, ok := ParseName(line)
	if !ok {
		fmt.Fprintln(c.out, "Please tell me your name.")
		return StageCollectIdentity, nil
	}
	c.state.Name = name
	fmt.Fprintf(c.out, "Great to meet you, %s!\n", name)
	return StageCollectGenre, nil
}

func (c *Controller) collectGenre() (Stage, error) {
	line, err := c.prompt("Enter genre number or name: ")
	if err != nil {
		return c.state.Stage, err
	}

	genre, ok := ParseGenreChoice(line, c.genres)
	if !ok {
		fmt.Fprintln(c.out, "Invalid input. Try again.")
		return StageCollectGenre, nil
	}
	c.state.Genre = genre
	return StageCollectMood, nil
}

func (c *Controller) collectMood(ctx context.Context) (Stage, error) {
	line, err := c.prompt("How do you feel today? (Describe your mood): ")
	if err != nil {
		return c.state.Stage, err
	}

	if err := c.pause(ctx, "Analyzing mood"); err != nil {
		return c.state.Stage, err
	}
	polarity, mood := c.rec.Classify(line)
	c.state.Mood = mood
	c.state.MoodPolarity = polarity
	fmt.Fprintf(c.out, "Mood detected: %s (Polarity: %.2f)\n", moodLabel(mood), polarity)
	return StageCollectRating, nil
}

func (c *Controller) collectRating() (Stage, error) {
	line, err := c.prompt(fmt.Sprintf("Enter minimum rating (%.1f-%.1f) or '%s': ",
		c.opts.RatingMin, c.opts.RatingMax, SkipToken))
	if err != nil {
		return c.state.Stage, err
	}

	rating, err := ParseRating(line, c.opts.RatingMin, c.opts.RatingMax)
	switch {
	case errors.Is(err, ErrRatingOutOfRange):
		fmt.Fprintln(c.out, "Rating out of range. Try again.")
		return StageCollectRating, nil
	case err != nil:
		fmt.Fprintln(c.out, "Invalid input. Try again.")
		return StageCollectRating, nil
	}
	c.state.MinRating = rating
	return StageRecommend, nil
}

func (c *Controller) recommend(ctx context.Context) (Stage, error) {
	if err := c.pause(ctx, fmt.Sprintf("Finding movies for %s", c.state.Name)); err != nil {
		return c.state.Stage, err
	}
	if err := c.query(ctx); err != nil {
		return c.state.Stage, err
	}
	return StageOfferRepeat, nil
}

func (c *Controller) offerRepeat(ctx context.Context) (Stage, error) {
	line, err := c.prompt("\nWould you like more recommendations? (yes/no): ")
	if err != nil {
		return c.state.Stage, err
	}

	switch ParseRepeat(line) {
	case RepeatNo:
		fmt.Fprintf(c.out, "Enjoy your movie picks, %s!\n", c.state.Name)
		return StageTerminate, nil
	case RepeatYes:
		if err := c.query(ctx); err != nil {
			return c.state.Stage, err
		}
		return StageOfferRepeat, nil
	default:
		fmt.Fprintln(c.out, "Invalid choice. Try again.")
		return StageOfferRepeat, nil
	}
}

// query asks for recommendations with the stored triple and renders them.
// Only failures other than the two "no results" outcomes are returned.
func (c *Controller) query(ctx context.Context) error {
	recs, err := c.rec.Recommend(ctx, c.state.Request(c.opts.TopN))
	switch {
	case err == nil:
		c.renderRecommendations(recs)
	case errors.Is(err, domain.ErrUnrecognizedGenre):
		fmt.Fprintf(c.out, "Error: genre %q is not recognized.\n", c.state.Genre)
	case errors.Is(err, domain.ErrNoRecommendations):
		fmt.Fprintln(c.out, "No recommendations found.")
	default:
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// prompt reads one line of any length. A final line without a newline still
// counts; ErrInputClosed means nothing was left to read.
func (c *Controller) prompt(text string) (string, error) {
	fmt.Fprint(c.out, text)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
