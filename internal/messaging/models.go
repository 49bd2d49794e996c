// internal/messaging/models.go

package messaging

import "time"

// Message is a direct message between two members. Messages are append-only;
// no edit or delete is modeled. Ordering is insertion order by CreatedAt,
// ties broken by the monotonically increasing Seq.
type Message struct {
	ID         string    `json:"id" db:"id"`
	Seq        int64     `json:"seq" db:"seq"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	ReceiverID string    `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	// Flagged carries the moderation verdict. Flagging degrades delivery
	// (caller-side warning), it never blocks it.
	Flagged   bool      `json:"is_flagged" db:"is_flagged"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SubmitResult is the outcome of a message submission.
type SubmitResult struct {
	Stored  bool     `json:"stored"`
	Flagged bool     `json:"flagged"`
	Reason  string   `json:"reason,omitempty"`
	Message *Message `json:"message,omitempty"`
}
