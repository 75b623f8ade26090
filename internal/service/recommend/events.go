// internal/service/recommend/events.go

package recommend

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Pipeline stage names carried on progress events.
const (
	StageResolvingLocation = "resolving_location"
	StageKeywordsGenerated = "keywords_generated"
	StageSearchCompleted   = "search_completed"
	StageRankingCompleted  = "ranking_completed"
)

// EventPublisher publishes progress events for long pipeline runs.
// *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// ProgressEvent is one stage transition during a pipeline run, streamed
// to clients waiting on the result.
type ProgressEvent struct {
	MeetingID uuid.UUID `json:"meeting_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressSubject is the subject progress events for one meeting are
// published on.
func ProgressSubject(meetingID uuid.UUID) string {
	return fmt.Sprintf("meeting.%s.recommend", meetingID)
}

// publishProgress emits a stage event. Publishing is best effort; a
// failure is logged and never interrupts the run.
func publishProgress(pub EventPublisher, logger *slog.Logger, meetingID uuid.UUID, stage, message string, count int) {
	if pub == nil {
		return
	}

	event := ProgressEvent{
		MeetingID: meetingID,
		Stage:     stage,
		Message:   message,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("marshaling progress event", "stage", stage, "error", err)
		return
	}
	if err := pub.Publish(ProgressSubject(meetingID), data); err != nil {
		logger.Warn("publishing progress event", "stage", stage, "error", err)
	}
}
