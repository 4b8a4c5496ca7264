package handler

import (
	"context"
	"net/http"

	"github.com/actuallystonmai/moodpicks/internal/domain"
	"github.com/goccy/go-json"
)

// Recommender is the read-only service surface the API exposes.
type Recommender interface {
	Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.Recommendation, error)
	Classify(text string) (float64, domain.MoodCategory)
	Genres() []string
}

type Handler struct {
	service Recommender
}

func NewHandler(svc Recommender) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
