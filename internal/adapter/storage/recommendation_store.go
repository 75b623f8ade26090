// internal/adapter/storage/recommendation_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// ErrRecommendationNotFound is returned when no recommendation set has
// been stored for the meeting.
var ErrRecommendationNotFound = errors.New("recommendations not found")

// RecommendationStore persists one recommendation set per meeting as a
// JSON document. A rerun replaces the previous set.
type RecommendationStore struct {
	db *pgxpool.Pool
}

// NewRecommendationStore creates a recommendation store.
func NewRecommendationStore(db *pgxpool.Pool) *RecommendationStore {
	return &RecommendationStore{db: db}
}

// SaveRecommendations upserts the meeting's recommendation set, keyed by
// the top-ranked place for quick joins against place-centric queries. The
// location-choice strategy that produced the set is recorded alongside it.
func (s *RecommendationStore) SaveRecommendations(ctx context.Context, meetingID uuid.UUID, locationChoice meeting.LocationChoiceType, result place.RecommendationResult) error {
	query := `
		INSERT INTO place_recommendations (
			meeting_id, top_place_id, location_choice_type, model_used, document, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (meeting_id) DO UPDATE
		SET
			top_place_id = $2,
			location_choice_type = $3,
			model_used = $4,
			document = $5,
			updated_at = $6
	`

	var topPlaceID string
	if len(result.Recommendations) > 0 {
		topPlaceID = result.Recommendations[0].PlaceID
	}

	document, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling recommendations: %w", err)
	}

	_, err = s.db.Exec(ctx, query, meetingID, topPlaceID, string(locationChoice), result.ModelUsed, document, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving recommendations: %w", err)
	}

	return nil
}

// GetRecommendations loads the stored recommendation set for a meeting.
func (s *RecommendationStore) GetRecommendations(ctx context.Context, meetingID uuid.UUID) (*place.RecommendationResult, error) {
	query := `
		SELECT document
		FROM place_recommendations
		WHERE meeting_id = $1
	`

	var document []byte
	if err := s.db.QueryRow(ctx, query, meetingID).Scan(&document); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("error querying recommendations: %w", err)
	}

	var result place.RecommendationResult
	if err := json.Unmarshal(document, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling recommendations: %w", err)
	}

	return &result, nil
}
