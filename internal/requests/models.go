// internal/requests/models.go

package requests

import "time"

// Kind distinguishes contact requests from mentorship applications.
type Kind string

const (
	KindContact    Kind = "contact"
	KindMentorship Kind = "mentorship"
)

func (k Kind) Valid() bool {
	return k == KindContact || k == KindMentorship
}

// Status is the request lifecycle state. Pending is the only non-terminal
// state; accepted, rejected, and blocked are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusBlocked  Status = "blocked"
)

// Terminal reports whether no further transition may leave the state.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusBlocked
}

// InteractionRequest is a contact or mentorship request between two members.
// Requests are never deleted, only transitioned to a terminal state by the
// receiver.
type InteractionRequest struct {
	ID         string `json:"id" db:"id"`
	SenderID   string `json:"sender_id" db:"sender_id"`
	ReceiverID string `json:"receiver_id" db:"receiver_id"`
	Kind       Kind   `json:"kind" db:"kind"`

	// Contact payload
	Purpose *string `json:"purpose,omitempty" db:"purpose"`
	Message *string `json:"message,omitempty" db:"message"`

	// Mentorship payload
	Goals      *string `json:"goals,omitempty" db:"goals"`
	Background *string `json:"background,omitempty" db:"background"`

	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// QuotaWindow is the sliding window over which outgoing requests are counted
// against a member's daily limit.
const QuotaWindow = 24 * time.Hour
