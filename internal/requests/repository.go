// internal/requests/repository.go

package requests

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

var ErrRequestNotFound = errors.New("interaction request not found")

// Repository persists interaction requests. CreateAtomic must execute its
// checks and the insert inside one atomic unit so that two concurrent
// creates for the same (sender, receiver, kind) pair cannot both succeed and
// the quota count cannot overflow unboundedly.
type Repository interface {
	// CreateAtomic inserts req in Pending state after verifying, in order,
	// inside a single transaction:
	//   1. the sender has fewer than quotaLimit outgoing requests (any kind)
	//      in the trailing QuotaWindow -> faults QuotaExceeded
	//   2. no Blocked record exists for (sender, receiver, kind) -> ReceiverClosed
	//   3. no Pending record exists for (sender, receiver, kind) -> DuplicatePending
	CreateAtomic(ctx context.Context, req *InteractionRequest, quotaLimit int) error

	Get(ctx context.Context, id string) (*InteractionRequest, error)

	// Transition compare-and-swaps the request from Pending to newStatus,
	// updating updated_at. Returns NotPending when the request is already
	// terminal (replay, or a concurrent transition won the race).
	Transition(ctx context.Context, id string, newStatus Status) (*InteractionRequest, error)

	// ListByMember returns requests where the member is the sender
	// (direction "outgoing"), the receiver ("incoming"), or either ("").
	// kind "" matches both kinds. Newest first.
	ListByMember(ctx context.Context, memberID, direction string, kind Kind) ([]*InteractionRequest, error)

	// HasAcceptedContact reports whether an accepted Contact-kind request
	// exists between the two members in either direction. The consent gate
	// reads this at send time.
	HasAcceptedContact(ctx context.Context, memberA, memberB string) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateAtomic(ctx context.Context, req *InteractionRequest, quotaLimit int) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return faults.Dependency(err)
	}
	defer tx.Rollback()

	// 1. Sliding-window quota on the sender's outgoing requests, any kind.
	var recent int
	err = tx.GetContext(ctx, &recent, `
        SELECT COUNT(*)
        FROM interaction_requests
        WHERE sender_id = $1 AND created_at > NOW() - $2::interval
    `, req.SenderID, QuotaWindow.String())
	if err != nil {
		return faults.Dependency(err)
	}
	if recent >= quotaLimit {
		return faults.New(faults.PolicyDenied, faults.ReasonQuotaExceeded)
	}

	// 2. A prior block from this receiver suppresses future creates.
	var blocked bool
	err = tx.GetContext(ctx, &blocked, `
        SELECT EXISTS (
            SELECT 1 FROM interaction_requests
            WHERE sender_id = $1 AND receiver_id = $2 AND kind = $3 AND status = 'blocked'
        )
    `, req.SenderID, req.ReceiverID, req.Kind)
	if err != nil {
		return faults.Dependency(err)
	}
	if blocked {
		return faults.New(faults.PolicyDenied, faults.ReasonReceiverClosed)
	}

	// 3. At most one non-terminal request per ordered (sender, receiver, kind).
	// A partial unique index on status = 'pending' backs this check, so the
	// race loser fails the insert even under concurrent commits.
	var pending bool
	err = tx.GetContext(ctx, &pending, `
        SELECT EXISTS (
            SELECT 1 FROM interaction_requests
            WHERE sender_id = $1 AND receiver_id = $2 AND kind = $3 AND status = 'pending'
        )
    `, req.SenderID, req.ReceiverID, req.Kind)
	if err != nil {
		return faults.Dependency(err)
	}
	if pending {
		return faults.New(faults.StateConflict, faults.ReasonDuplicatePending)
	}

	err = tx.QueryRowxContext(ctx, `
        INSERT INTO interaction_requests (
            id, sender_id, receiver_id, kind, purpose, message,
            goals, background, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
        RETURNING created_at, updated_at
    `,
		req.ID, req.SenderID, req.ReceiverID, req.Kind,
		req.Purpose, req.Message, req.Goals, req.Background,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return faults.New(faults.StateConflict, faults.ReasonDuplicatePending)
		}
		return faults.Dependency(err)
	}
	req.Status = StatusPending

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return faults.New(faults.StateConflict, faults.ReasonDuplicatePending)
		}
		return faults.Dependency(err)
	}

	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*InteractionRequest, error) {
	var req InteractionRequest
	err := r.db.GetContext(ctx, &req, `
        SELECT id, sender_id, receiver_id, kind, purpose, message,
               goals, background, status, created_at, updated_at
        FROM interaction_requests
        WHERE id = $1
    `, id)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, faults.Dependency(err)
	}

	return &req, nil
}

func (r *postgresRepository) Transition(ctx context.Context, id string, newStatus Status) (*InteractionRequest, error) {
	var req InteractionRequest
	err := r.db.GetContext(ctx, &req, `
        UPDATE interaction_requests
        SET status = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND status = 'pending'
        RETURNING id, sender_id, receiver_id, kind, purpose, message,
                  goals, background, status, created_at, updated_at
    `, id, newStatus)
	if err == sql.ErrNoRows {
		// Distinguish a missing request from a terminal one.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, faults.New(faults.StateConflict, faults.ReasonNotPending)
	}
	if err != nil {
		return nil, faults.Dependency(err)
	}

	return &req, nil
}

func (r *postgresRepository) ListByMember(ctx context.Context, memberID, direction string, kind Kind) ([]*InteractionRequest, error) {
	query := `
        SELECT id, sender_id, receiver_id, kind, purpose, message,
               goals, background, status, created_at, updated_at
        FROM interaction_requests
        WHERE `
	args := []interface{}{memberID}

	switch direction {
	case "outgoing":
		query += `sender_id = $1`
	case "incoming":
		query += `receiver_id = $1`
	default:
		query += `(sender_id = $1 OR receiver_id = $1)`
	}

	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}

	query += ` ORDER BY created_at DESC`

	var result []*InteractionRequest
	if err := r.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, faults.Dependency(err)
	}

	return result, nil
}

func (r *postgresRepository) HasAcceptedContact(ctx context.Context, memberA, memberB string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM interaction_requests
            WHERE kind = 'contact' AND status = 'accepted'
              AND ((sender_id = $1 AND receiver_id = $2)
                OR (sender_id = $2 AND receiver_id = $1))
        )
    `, memberA, memberB)
	if err != nil {
		return false, faults.Dependency(err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001"
	}
	return false
}
