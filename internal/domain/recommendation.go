package domain

type MoodCategory string

const (
	MoodPositive MoodCategory = "positive"
	MoodNegative MoodCategory = "negative"
	MoodNeutral  MoodCategory = "neutral"
)

// RecommendationRequest describes one engine query. An empty Genre and nil
// Mood or MinRating mean the filter is absent.
type RecommendationRequest struct {
	Genre     string
	Mood      *MoodCategory
	MinRating *float64
	TopN      int
}

type Recommendation struct {
	Title    string  `json:"title"`
	Genre    string  `json:"genre"`
	Rating   float64 `json:"rating"`
	Polarity float64 `json:"polarity"`
}

type RecommendationMeta struct {
	Genre       string  `json:"genre,omitempty"`
	Mood        string  `json:"mood,omitempty"`
	Polarity    float64 `json:"mood_polarity"`
	MinRating   float64 `json:"min_rating,omitempty"`
	GeneratedAt string  `json:"generated_at"`
	TotalCount  int     `json:"total_count"`
}
