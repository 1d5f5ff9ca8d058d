package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CANDIDATE_ADDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event codes emitted by the recruiting pipeline.
const (
	TypeCandidateAdded    = "CANDIDATE_ADDED"
	TypeSyncCompleted     = "SYNC_COMPLETED"
	TypeInvitationsSent   = "INVITATIONS_SENT"
	TypeContractGenerated = "CONTRACT_GENERATED"
	TypeLinkedInPosted    = "LINKEDIN_POSTED"
)
