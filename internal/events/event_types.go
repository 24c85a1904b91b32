package events

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintFiled         EventType = "complaint_filed"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventBurstDetected          EventType = "burst_detected"
)

// ActorType names who triggered an event. There is no account system;
// actors are roles, not identities.
type ActorType string

const (
	ActorCitizen   ActorType = "citizen"
	ActorAuthority ActorType = "authority"
	ActorEscalator ActorType = "escalator"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TrackingID string      `json:"tracking_id,omitempty"`
	Actor      ActorType   `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ComplaintFiledPayload payload.
type ComplaintFiledPayload struct {
	City          string          `json:"city"`
	Category      string          `json:"category"`
	Severity      domain.Severity `json:"severity"`
	PriorityScore int             `json:"priority_score"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	Remarks   string        `json:"remarks,omitempty"`
}

// BurstDetectedPayload payload.
type BurstDetectedPayload struct {
	City     string `json:"city"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}
