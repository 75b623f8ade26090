// internal/server/handlers/recommend.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"moim/internal/adapter/storage"
	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/preference"
	"moim/internal/service/recommend"
)

// MeetingLoader loads a meeting's pipeline input. *storage.MeetingStore
// implements it.
type MeetingLoader interface {
	GetMeetingContext(ctx context.Context, id uuid.UUID) (*meeting.Context, []meeting.Preference, error)
}

// RecommendationRepository persists recommendation sets.
// *storage.RecommendationStore implements it.
type RecommendationRepository interface {
	SaveRecommendations(ctx context.Context, meetingID uuid.UUID, locationChoice meeting.LocationChoiceType, result place.RecommendationResult) error
	GetRecommendations(ctx context.Context, meetingID uuid.UUID) (*place.RecommendationResult, error)
}

// PipelineRunner runs the recommendation pipeline for one meeting.
// *recommend.Pipeline implements it.
type PipelineRunner interface {
	Run(ctx context.Context, m *meeting.Context, topN int) (*recommend.Result, error)
}

// RecommendHandler handles recommendation HTTP requests
type RecommendHandler struct {
	meetings        MeetingLoader
	recommendations RecommendationRepository
	pipeline        PipelineRunner
	defaultTopN     int
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(meetings MeetingLoader, recommendations RecommendationRepository, pipeline PipelineRunner, defaultTopN int) *RecommendHandler {
	if defaultTopN <= 0 {
		defaultTopN = recommend.DefaultTopN
	}
	return &RecommendHandler{
		meetings:        meetings,
		recommendations: recommendations,
		pipeline:        pipeline,
		defaultTopN:     defaultTopN,
	}
}

// CreateRecommendations runs the full pipeline for a meeting, persists
// the resulting set, and returns it.
func (h *RecommendHandler) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid meeting ID", nil)
		return
	}

	m, prefs, err := h.meetings.GetMeetingContext(r.Context(), meetingID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMeetingNotFound):
			respondWithError(w, http.StatusNotFound, "Meeting not found", nil)
		case errors.Is(err, storage.ErrNoParticipants):
			respondWithError(w, http.StatusBadRequest, "Meeting has no participants", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to load meeting", err)
		}
		return
	}

	m.Preferences = preference.Aggregate(prefs)

	topN := h.defaultTopN
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid top_n", nil)
			return
		}
		topN = n
	}

	result, err := h.pipeline.Run(r.Context(), m, topN)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Recommendation pipeline failed", err)
		return
	}

	if err := h.recommendations.SaveRecommendations(r.Context(), meetingID, m.LocationChoice, result.Recommendations); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save recommendations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendationResponse{
		MeetingID:       meetingID,
		Anchor:          result.Anchor,
		Keywords:        result.Keywords,
		Recommendations: result.Recommendations,
	})
}

// GetRecommendations returns the stored recommendation set for a meeting.
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid meeting ID", nil)
		return
	}

	result, err := h.recommendations.GetRecommendations(r.Context(), meetingID)
	if err != nil {
		if errors.Is(err, storage.ErrRecommendationNotFound) {
			respondWithError(w, http.StatusNotFound, "Recommendations not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load recommendations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendationResponse{
		MeetingID:       meetingID,
		Recommendations: *result,
	})
}

type recommendationResponse struct {
	MeetingID       uuid.UUID                  `json:"meeting_id"`
	Anchor          *meeting.CenterLocation    `json:"anchor,omitempty"`
	Keywords        []place.Keyword            `json:"keywords,omitempty"`
	Recommendations place.RecommendationResult `json:"recommendations"`
}
