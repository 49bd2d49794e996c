// internal/messaging/service.go
// The consent gate. Messaging is default-closed: a message may only flow
// over an accepted Contact request, and the receiver's opt-in is re-read on
// every send, so disabling DMs closes the channel immediately.

package messaging

import (
	"context"

	"github.com/google/uuid"

	"github.com/theloveculture/tlc-backend/internal/audit"
	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

// ConsentSource answers whether an accepted Contact request links two members.
type ConsentSource interface {
	HasAcceptedContact(ctx context.Context, memberA, memberB string) (bool, error)
}

// PolicySource is the slice of the member directory the gate reads.
type PolicySource interface {
	GetPolicy(ctx context.Context, memberID string) (*policy.PrivacyPolicy, error)
}

type Service interface {
	CanMessage(ctx context.Context, senderID, receiverID string) (bool, error)
	Submit(ctx context.Context, senderID, receiverID, content string) (*SubmitResult, error)
	Thread(ctx context.Context, memberA, memberB string) ([]*Message, error)
}

type service struct {
	repo      Repository
	consent   ConsentSource
	policies  PolicySource
	moderator Moderator
	emitter   *audit.Emitter
}

func NewService(repo Repository, consent ConsentSource, policies PolicySource, moderator Moderator, emitter *audit.Emitter) Service {
	return &service{
		repo:      repo,
		consent:   consent,
		policies:  policies,
		moderator: moderator,
		emitter:   emitter,
	}
}

func (s *service) CanMessage(ctx context.Context, senderID, receiverID string) (bool, error) {
	if senderID == receiverID {
		return false, nil
	}

	linked, err := s.consent.HasAcceptedContact(ctx, senderID, receiverID)
	if err != nil {
		return false, err
	}
	if !linked {
		return false, nil
	}

	// Policy is read at send time, never cached at acceptance time.
	receiverPolicy, err := s.policies.GetPolicy(ctx, receiverID)
	if err != nil {
		return false, err
	}

	return receiverPolicy.AllowDirectMessages, nil
}

func (s *service) Submit(ctx context.Context, senderID, receiverID, content string) (*SubmitResult, error) {
	allowed, err := s.CanMessage(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.emitter.Emit(ctx, audit.EventMessageSubmitted, false, faults.ReasonConsentRequired, senderID, receiverID)
		return &SubmitResult{
			Stored: false,
			Reason: faults.ReasonConsentRequired,
		}, nil
	}

	flagged, err := s.moderator.Moderate(ctx, content)
	if err != nil {
		return nil, faults.Dependency(err)
	}

	// Flagging degrades delivery, it never blocks it.
	msg := &Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Flagged:    flagged,
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, audit.EventMessageSubmitted, true, "", senderID, receiverID)
	return &SubmitResult{
		Stored:  true,
		Flagged: flagged,
		Message: msg,
	}, nil
}

func (s *service) Thread(ctx context.Context, memberA, memberB string) ([]*Message, error) {
	return s.repo.ListBetween(ctx, memberA, memberB)
}
