// internal/requests/service.go

package requests

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/theloveculture/tlc-backend/internal/audit"
	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

// CreateRequestDTO is the sender-submitted payload for a new request.
type CreateRequestDTO struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=contact mentorship"`

	// Contact fields
	Purpose string `json:"purpose,omitempty" validate:"omitempty,oneof=connection collaboration other"`
	Message string `json:"message,omitempty" validate:"max=2000"`

	// Mentorship fields
	Goals      string `json:"goals,omitempty" validate:"max=2000"`
	Background string `json:"background,omitempty" validate:"max=2000"`
}

type Service interface {
	Create(ctx context.Context, senderID string, dto *CreateRequestDTO) (*InteractionRequest, error)
	Transition(ctx context.Context, requestID, actorID string, newStatus Status) (*InteractionRequest, error)
	List(ctx context.Context, memberID, direction string, kind Kind) ([]*InteractionRequest, error)
}

// Emitter is the audit sink the service reports decisions to. Every denial,
// validation failures included, must reach it.
type Emitter interface {
	Emit(ctx context.Context, kind audit.EventKind, allowed bool, reason string, subjectIDs ...string)
}

type service struct {
	repo      Repository
	directory policy.Directory
	emitter   Emitter
}

func NewService(repo Repository, directory policy.Directory, emitter Emitter) Service {
	return &service{repo: repo, directory: directory, emitter: emitter}
}

func (s *service) Create(ctx context.Context, senderID string, dto *CreateRequestDTO) (*InteractionRequest, error) {
	kind := Kind(strings.ToLower(dto.Kind))
	if !kind.Valid() {
		err := faults.New(faults.Validation, "invalid-kind")
		s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, dto.ReceiverID)
		return nil, err
	}

	if senderID == dto.ReceiverID {
		err := faults.New(faults.Validation, faults.ReasonSelfRequest)
		s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, dto.ReceiverID)
		return nil, err
	}

	receiver, err := s.directory.GetMember(ctx, dto.ReceiverID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindContact:
		if dto.Message == "" {
			err := faults.New(faults.Validation, "message-required")
			s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, receiver.ID)
			return nil, err
		}
		receiverPolicy, err := s.directory.GetPolicy(ctx, receiver.ID)
		if err != nil {
			return nil, err
		}
		if !receiverPolicy.AllowConnectionRequests {
			err := faults.New(faults.PolicyDenied, faults.ReasonReceiverClosed)
			s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, receiver.ID)
			return nil, err
		}

	case KindMentorship:
		if dto.Goals == "" || dto.Background == "" {
			err := faults.New(faults.Validation, "goals-and-background-required")
			s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, receiver.ID)
			return nil, err
		}
		// Only Love Models receive mentorship applications.
		if receiver.Role != policy.RoleMarriedLoveModel {
			err := faults.New(faults.PolicyDenied, faults.ReasonNotMentor)
			s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, receiver.ID)
			return nil, err
		}
	}

	senderPolicy, err := s.directory.GetPolicy(ctx, senderID)
	if err != nil {
		return nil, err
	}

	req := &InteractionRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Kind:       kind,
	}
	switch kind {
	case KindContact:
		purpose := dto.Purpose
		if purpose == "" {
			purpose = "connection"
		}
		req.Purpose = &purpose
		req.Message = &dto.Message
	case KindMentorship:
		req.Goals = &dto.Goals
		req.Background = &dto.Background
	}

	if err := s.repo.CreateAtomic(ctx, req, senderPolicy.DailyRequestLimit); err != nil {
		s.emitDenied(ctx, audit.EventRequestCreated, err, senderID, receiver.ID)
		return nil, err
	}

	requestsCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.emitter.Emit(ctx, audit.EventRequestCreated, true, "", senderID, receiver.ID)
	return req, nil
}

func (s *service) Transition(ctx context.Context, requestID, actorID string, newStatus Status) (*InteractionRequest, error) {
	if !newStatus.Terminal() {
		err := faults.New(faults.Validation, "invalid-status")
		s.emitDenied(ctx, audit.EventRequestTransitioned, err, actorID)
		return nil, err
	}

	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Only the receiver decides.
	if req.ReceiverID != actorID {
		err := faults.New(faults.Unauthorized, faults.ReasonInvalidActor)
		s.emitDenied(ctx, audit.EventRequestTransitioned, err, actorID, req.SenderID)
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, requestID, newStatus)
	if err != nil {
		s.emitDenied(ctx, audit.EventRequestTransitioned, err, req.SenderID, req.ReceiverID)
		return nil, err
	}

	requestTransitionsTotal.WithLabelValues(string(newStatus)).Inc()
	s.emitter.Emit(ctx, audit.EventRequestTransitioned, true, string(newStatus), req.SenderID, req.ReceiverID)
	return updated, nil
}

func (s *service) List(ctx context.Context, memberID, direction string, kind Kind) ([]*InteractionRequest, error) {
	return s.repo.ListByMember(ctx, memberID, direction, kind)
}

func (s *service) emitDenied(ctx context.Context, kind audit.EventKind, err error, subjectIDs ...string) {
	s.emitter.Emit(ctx, kind, false, faults.ReasonOf(err), subjectIDs...)
}
