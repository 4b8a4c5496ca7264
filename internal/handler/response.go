package handler

import "github.com/actuallystonmai/moodpicks/internal/domain"

type RecommendationResponse struct {
	Recommendations []domain.Recommendation   `json:"recommendations"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
	Message         string                    `json:"message,omitempty"`
}

type GenresResponse struct {
	Genres []string `json:"genres"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
