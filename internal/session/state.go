package session

import "github.com/actuallystonmai/moodpicks/internal/domain"

// Stage is a step of the dialogue. Invalid input keeps the current stage.
type Stage int

const (
	StageCollectIdentity Stage = iota
	StageCollectGenre
	StageCollectMood
	StageCollectRating
	StageRecommend
	StageOfferRepeat
	StageTerminate
)

func (s Stage) String() string {
	switch s {
	case StageCollectIdentity:
		return "collect_identity"
	case StageCollectGenre:
		return "collect_genre"
	case StageCollectMood:
		return "collect_mood"
	case StageCollectRating:
		return "collect_rating"
	case StageRecommend:
		return "recommend"
	case StageOfferRepeat:
		return "offer_repeat"
	case StageTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// State is everything the dialogue has collected so far. The genre, mood and
// rating triple is reused verbatim for every repeat query.
type State struct {
	Stage        Stage
	Name         string
	Genre        string
	Mood         domain.MoodCategory
	MoodPolarity float64
	MinRating    *float64
}

func (s State) Request(topN int) domain.RecommendationRequest {
	mood := s.Mood
	req := domain.RecommendationRequest{
		Genre: s.Genre,
		TopN:  topN,
	}
	if mood != "" {
		req.Mood = &mood
	}
	if s.MinRating != nil {
		r := *s.MinRating
		req.MinRating = &r
	}
	return req
}
