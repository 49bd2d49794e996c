// internal/messaging/repository.go

package messaging

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

type Repository interface {
	// Insert stores the message and assigns its sequence number.
	Insert(ctx context.Context, msg *Message) error

	// ListBetween returns the conversation between the two members in
	// insertion order (created_at, then seq).
	ListBetween(ctx context.Context, memberA, memberB string) ([]*Message, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, msg *Message) error {
	// seq is a bigserial; the database hands out the monotone tie-breaker.
	err := r.db.QueryRowxContext(ctx, `
        INSERT INTO messages (id, sender_id, receiver_id, content, is_flagged)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING seq, created_at
    `, msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.Flagged).
		Scan(&msg.Seq, &msg.CreatedAt)
	if err != nil {
		return faults.Dependency(err)
	}
	return nil
}

func (r *postgresRepository) ListBetween(ctx context.Context, memberA, memberB string) ([]*Message, error) {
	var result []*Message
	err := r.db.SelectContext(ctx, &result, `
        SELECT id, seq, sender_id, receiver_id, content, is_flagged, created_at
        FROM messages
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY created_at, seq
    `, memberA, memberB)
	if err != nil {
		return nil, faults.Dependency(err)
	}
	return result, nil
}

// MemoryRepository is the in-memory message store for tests.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []*Message
	nextSeq  int64
	// Now is the repository clock; tests may override it.
	Now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{Now: time.Now}
}

func (r *MemoryRepository) Insert(ctx context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	msg.Seq = r.nextSeq
	msg.CreatedAt = r.Now()

	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *MemoryRepository) ListBetween(ctx context.Context, memberA, memberB string) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Message
	for _, msg := range r.messages {
		if (msg.SenderID == memberA && msg.ReceiverID == memberB) ||
			(msg.SenderID == memberB && msg.ReceiverID == memberA) {
			copy := *msg
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Seq < result[j].Seq
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
