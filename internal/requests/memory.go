// internal/requests/memory.go
// In-memory Repository for tests and local development. A single mutex
// stands in for the store's per-record atomicity.

package requests

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

type MemoryRepository struct {
	mu       sync.Mutex
	byID     map[string]*InteractionRequest
	// Now is the repository clock; tests override it to slide the quota window.
	Now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]*InteractionRequest),
		Now:  time.Now,
	}
}

func (r *MemoryRepository) CreateAtomic(ctx context.Context, req *InteractionRequest, quotaLimit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	cutoff := now.Add(-QuotaWindow)

	recent := 0
	for _, existing := range r.byID {
		if existing.SenderID == req.SenderID && existing.CreatedAt.After(cutoff) {
			recent++
		}
	}
	if recent >= quotaLimit {
		return faults.New(faults.PolicyDenied, faults.ReasonQuotaExceeded)
	}

	for _, existing := range r.byID {
		if existing.SenderID != req.SenderID || existing.ReceiverID != req.ReceiverID || existing.Kind != req.Kind {
			continue
		}
		if existing.Status == StatusBlocked {
			return faults.New(faults.PolicyDenied, faults.ReasonReceiverClosed)
		}
	}

	for _, existing := range r.byID {
		if existing.SenderID == req.SenderID && existing.ReceiverID == req.ReceiverID &&
			existing.Kind == req.Kind && existing.Status == StatusPending {
			return faults.New(faults.StateConflict, faults.ReasonDuplicatePending)
		}
	}

	stored := *req
	stored.Status = StatusPending
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = &stored

	*req = stored
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*InteractionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	copy := *req
	return &copy, nil
}

func (r *MemoryRepository) Transition(ctx context.Context, id string, newStatus Status) (*InteractionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return nil, faults.New(faults.StateConflict, faults.ReasonNotPending)
	}

	req.Status = newStatus
	req.UpdatedAt = r.Now()

	copy := *req
	return &copy, nil
}

func (r *MemoryRepository) HasAcceptedContact(ctx context.Context, memberA, memberB string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.byID {
		if req.Kind != KindContact || req.Status != StatusAccepted {
			continue
		}
		if (req.SenderID == memberA && req.ReceiverID == memberB) ||
			(req.SenderID == memberB && req.ReceiverID == memberA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ListByMember(ctx context.Context, memberID, direction string, kind Kind) ([]*InteractionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*InteractionRequest
	for _, req := range r.byID {
		switch direction {
		case "outgoing":
			if req.SenderID != memberID {
				continue
			}
		case "incoming":
			if req.ReceiverID != memberID {
				continue
			}
		default:
			if req.SenderID != memberID && req.ReceiverID != memberID {
				continue
			}
		}
		if kind != "" && req.Kind != kind {
			continue
		}
		copy := *req
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
