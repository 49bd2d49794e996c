// internal/audit/models.go

package audit

import "time"

// EventKind names the decision surface that produced an event.
type EventKind string

const (
	EventTransferEvaluated   EventKind = "transfer_evaluated"
	EventRequestCreated      EventKind = "request_created"
	EventRequestTransitioned EventKind = "request_transitioned"
	EventMessageSubmitted    EventKind = "message_submitted"
)

// Event is the structured record of one authorization decision. Events feed
// logging, metrics, and member-facing toast notifications; they are never
// persisted by the engine itself.
type Event struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason,omitempty"`
	SubjectIDs []string  `json:"subject_ids"`
	At         time.Time `json:"at"`
}
