package session

import (
	"errors"
	"strconv"
	"strings"
)

// SkipToken leaves the minimum rating unset.
const SkipToken = "skip"

var (
	ErrInvalidNumber    = errors.New("not a number")
	ErrRatingOutOfRange = errors.New("rating out of range")
)

// ParseName accepts any non-blank name.
func ParseName(input string) (string, bool) {
	name := strings.TrimSpace(input)
	return name, name != ""
}

// ParseGenreChoice resolves input against the sorted vocabulary. A whole
// number selects by 1-based position and is never matched as text; anything
// else selects the first label containing it, ignoring case.
func ParseGenreChoice(input string, vocab []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(vocab) {
			return vocab[n-1], true
		}
		return "", false
	}

	needle := strings.ToLower(input)
	for _, label := range vocab {
		if strings.Contains(strings.ToLower(label), needle) {
			return label, true
		}
	}
	return "", false
}

// ParseRating returns nil for the skip token, otherwise a rating inside the
// closed range [lo, hi].
func ParseRating(input string, lo, hi float64) (*float64, error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, SkipToken) {
		return nil, nil
	}

	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	// written so NaN falls out of range
	if !(v >= lo && v <= hi) {
		return nil, ErrRatingOutOfRange
	}
	return &v, nil
}

type RepeatChoice int

const (
	RepeatInvalid RepeatChoice = iota
	RepeatYes
	RepeatNo
)

func ParseRepeat(input string) RepeatChoice {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes":
		return RepeatYes
	case "no":
		return RepeatNo
	default:
		return RepeatInvalid
	}
}
