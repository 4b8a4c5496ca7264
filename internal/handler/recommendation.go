package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/actuallystonmai/moodpicks/internal/domain"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

// GET /genres
func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GenresResponse{Genres: h.service.Genres()})
}

// GET /recommendations?genre=&mood=&min_rating=&limit=
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.RecommendationRequest{
		Genre: strings.TrimSpace(q.Get("genre")),
		TopN:  defaultLimit,
	}

	// Parse and validate limit
	if limitStr := q.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > maxLimit {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		req.TopN = parsed
	}

	// Parse and validate min_rating
	if ratingStr := q.Get("min_rating"); ratingStr != "" {
		parsed, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil || !(parsed >= 0 && parsed <= 10) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid min_rating parameter")
			return
		}
		req.MinRating = &parsed
	}

	// mood is free text, classified the same way the console session does it
	meta := domain.RecommendationMeta{Genre: req.Genre}
	if moodText, ok := q["mood"]; ok {
		polarity, mood := h.service.Classify(strings.Join(moodText, " "))
		req.Mood = &mood
		meta.Mood = string(mood)
		meta.Polarity = polarity
	}
	if req.MinRating != nil {
		meta.MinRating = *req.MinRating
	}

	recs, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnrecognizedGenre) {
			writeError(w, http.StatusNotFound, "genre_not_recognized",
				fmt.Sprintf("Genre %q is not recognized", req.Genre))
			return
		}
		// Valid filters with nothing admitted
		if errors.Is(err, domain.ErrNoRecommendations) {
			meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
			writeJSON(w, http.StatusOK, RecommendationResponse{
				Recommendations: []domain.Recommendation{},
				Metadata:        meta,
				Message:         "No recommendations found",
			})
			return
		}
		// Request timeout
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	meta.TotalCount = len(recs)
	writeJSON(w, http.StatusOK, RecommendationResponse{
		Recommendations: recs,
		Metadata:        meta,
	})
}
