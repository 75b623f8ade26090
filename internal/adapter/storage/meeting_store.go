// internal/adapter/storage/meeting_store.go

// Package storage implements the Postgres-backed stores.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"moim/internal/domain/meeting"
)

// ErrMeetingNotFound is returned when the meeting id matches no row.
var ErrMeetingNotFound = errors.New("meeting not found")

// ErrNoParticipants is returned when a meeting exists but nobody has
// joined it yet; the pipeline has nothing to work with.
var ErrNoParticipants = errors.New("meeting has no participants")

// MeetingStore loads meetings and their participant signals.
type MeetingStore struct {
	db *pgxpool.Pool
}

// NewMeetingStore creates a meeting store.
func NewMeetingStore(db *pgxpool.Pool) *MeetingStore {
	return &MeetingStore{db: db}
}

// GetMeetingContext loads one meeting with its participant locations and
// vote tallies, plus the raw per-participant preference lists for the
// caller to aggregate.
func (s *MeetingStore) GetMeetingContext(ctx context.Context, id uuid.UUID) (*meeting.Context, []meeting.Preference, error) {
	query := `
		SELECT
			id, title, description, purpose, location_choice_type,
			preferred_district, preferred_station, expected_participant_count
		FROM meetings
		WHERE id = $1
	`

	var m meeting.Context
	var purpose, locationChoice string
	var preferredDistrict, preferredStation *string

	err := s.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&purpose,
		&locationChoice,
		&preferredDistrict,
		&preferredStation,
		&m.ExpectedParticipants,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrMeetingNotFound
		}
		return nil, nil, fmt.Errorf("error querying meeting: %w", err)
	}

	m.Purpose = meeting.Purpose(purpose)
	m.LocationChoice = meeting.LocationChoiceType(locationChoice)
	if preferredDistrict != nil {
		m.PreferredDistrict = *preferredDistrict
	}
	if preferredStation != nil {
		m.PreferredStation = *preferredStation
	}

	locations, err := s.participantLocations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	m.ParticipantLocations = locations

	prefs, err := s.participantPreferences(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(locations) == 0 && len(prefs) == 0 {
		return nil, nil, ErrNoParticipants
	}

	if m.DistrictVotes, err = s.voteTally(ctx, id, "district"); err != nil {
		return nil, nil, err
	}
	if m.StationVotes, err = s.voteTally(ctx, id, "station"); err != nil {
		return nil, nil, err
	}

	return &m, prefs, nil
}

func (s *MeetingStore) participantLocations(ctx context.Context, meetingID uuid.UUID) ([]meeting.ParticipantLocation, error) {
	query := `
		SELECT participant_id, address, latitude, longitude, district
		FROM participant_locations
		WHERE meeting_id = $1
		ORDER BY participant_id
	`

	rows, err := s.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("error querying participant locations: %w", err)
	}
	defer rows.Close()

	var locations []meeting.ParticipantLocation
	for rows.Next() {
		var loc meeting.ParticipantLocation
		var address, district *string

		if err := rows.Scan(&loc.ParticipantID, &address, &loc.Latitude, &loc.Longitude, &district); err != nil {
			return nil, fmt.Errorf("error scanning participant location: %w", err)
		}
		if address != nil {
			loc.Address = *address
		}
		if district != nil {
			loc.District = *district
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return locations, nil
}

func (s *MeetingStore) participantPreferences(ctx context.Context, meetingID uuid.UUID) ([]meeting.Preference, error) {
	query := `
		SELECT food_types, atmospheres, conditions
		FROM participant_preferences
		WHERE meeting_id = $1
		ORDER BY participant_id
	`

	rows, err := s.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("error querying participant preferences: %w", err)
	}
	defer rows.Close()

	var prefs []meeting.Preference
	for rows.Next() {
		var foods, atmospheres, conditions []string

		if err := rows.Scan(&foods, &atmospheres, &conditions); err != nil {
			return nil, fmt.Errorf("error scanning participant preference: %w", err)
		}
		prefs = append(prefs, meeting.Preference{
			FoodTypes:   toTags[meeting.FoodTag](foods),
			Atmospheres: toTags[meeting.AtmosphereTag](atmospheres),
			Conditions:  toTags[meeting.ConditionTag](conditions),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return prefs, nil
}

// voteTally aggregates one vote per participant into value counts.
func (s *MeetingStore) voteTally(ctx context.Context, meetingID uuid.UUID, voteType string) (map[string]int, error) {
	query := `
		SELECT value, COUNT(*)
		FROM location_votes
		WHERE meeting_id = $1 AND vote_type = $2
		GROUP BY value
	`

	rows, err := s.db.Query(ctx, query, meetingID, voteType)
	if err != nil {
		return nil, fmt.Errorf("error querying %s votes: %w", voteType, err)
	}
	defer rows.Close()

	tally := make(map[string]int)
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("error scanning vote tally: %w", err)
		}
		tally[value] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(tally) == 0 {
		return nil, nil
	}
	return tally, nil
}

func toTags[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	tags := make([]T, 0, len(values))
	for _, v := range values {
		tags = append(tags, T(v))
	}
	return tags
}
