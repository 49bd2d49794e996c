package requests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theloveculture/tlc-backend/internal/audit"
	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

type fixture struct {
	service   Service
	repo      *MemoryRepository
	directory *policy.MemoryDirectory
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      NewMemoryRepository(),
		directory: policy.NewMemoryDirectory(5),
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.repo.Now = func() time.Time { return f.now }

	f.directory.PutMember(policy.Member{ID: "alice", DisplayName: "Alice", Role: policy.RoleSingle})
	f.directory.PutMember(policy.Member{ID: "bob", DisplayName: "Bob", Role: policy.RoleMarriedLoveModel})
	f.directory.PutMember(policy.Member{ID: "carol", DisplayName: "Carol", Role: policy.RoleIntentionalPartner})
	f.directory.PutMember(policy.Member{ID: "dave", DisplayName: "Dave", Role: policy.RoleSingle})

	emitter := audit.NewEmitter(nil, "", nil)
	f.service = NewService(f.repo, f.directory, emitter)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func contactDTO(receiverID string) *CreateRequestDTO {
	return &CreateRequestDTO{
		ReceiverID: receiverID,
		Kind:       "contact",
		Purpose:    "connection",
		Message:    "Hi, I'd like to connect.",
	}
}

func mentorshipDTO(receiverID string) *CreateRequestDTO {
	return &CreateRequestDTO{
		ReceiverID: receiverID,
		Kind:       "mentorship",
		Goals:      "Build a lasting relationship.",
		Background: "Two years in the community.",
	}
}

func TestCreateContactRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "alice", req.SenderID)
	assert.Equal(t, "bob", req.ReceiverID)
	require.NotNil(t, req.Purpose)
	assert.Equal(t, "connection", *req.Purpose)
}

func TestCreateSelfRequestDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), "alice", contactDTO("alice"))
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Validation))
}

func TestCreateContactReceiverClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	closed := policy.DefaultPolicy("bob", 5)
	closed.AllowConnectionRequests = false
	require.NoError(t, f.directory.UpdatePolicy(ctx, closed))

	_, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.PolicyDenied))
	assert.Equal(t, faults.ReasonReceiverClosed, faults.ReasonOf(err))
}

func TestCreateMentorshipRequiresLoveModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Only Love Models receive mentorship applications.
	_, err := f.service.Create(ctx, "alice", mentorshipDTO("carol"))
	require.Error(t, err)
	assert.Equal(t, faults.ReasonNotMentor, faults.ReasonOf(err))

	req, err := f.service.Create(ctx, "alice", mentorshipDTO("bob"))
	require.NoError(t, err)
	assert.Equal(t, KindMentorship, req.Kind)
}

func TestCreateDuplicatePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, "alice", contactDTO("bob"))
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.StateConflict))
	assert.Equal(t, faults.ReasonDuplicatePending, faults.ReasonOf(err))

	// A different kind for the same pair is a different ordered key.
	_, err = f.service.Create(ctx, "alice", mentorshipDTO("bob"))
	require.NoError(t, err)

	// After the first is rejected, a new contact request may be created.
	_, err = f.service.Transition(ctx, first.ID, "bob", StatusRejected)
	require.NoError(t, err)

	_, err = f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)
}

func TestCreateQuotaSlidingWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	limited := policy.DefaultPolicy("alice", 3)
	limited.DailyRequestLimit = 3
	require.NoError(t, f.directory.UpdatePolicy(ctx, limited))

	_, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)
	f.advance(1 * time.Hour)

	_, err = f.service.Create(ctx, "alice", contactDTO("carol"))
	require.NoError(t, err)
	f.advance(1 * time.Hour)

	_, err = f.service.Create(ctx, "alice", contactDTO("dave"))
	require.NoError(t, err)

	// Fourth request inside the trailing 24h window is over quota.
	_, err = f.service.Create(ctx, "alice", mentorshipDTO("bob"))
	require.Error(t, err)
	assert.Equal(t, faults.ReasonQuotaExceeded, faults.ReasonOf(err))

	// Once the window slides past the oldest request, creation succeeds.
	f.advance(23 * time.Hour)
	_, err = f.service.Create(ctx, "alice", mentorshipDTO("bob"))
	require.NoError(t, err)
}

func TestTransitionReceiverOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)

	// The sender cannot accept their own request.
	_, err = f.service.Transition(ctx, req.ID, "alice", StatusAccepted)
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Unauthorized))
	assert.Equal(t, faults.ReasonInvalidActor, faults.ReasonOf(err))

	// Neither can a third party.
	_, err = f.service.Transition(ctx, req.ID, "carol", StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, faults.ReasonInvalidActor, faults.ReasonOf(err))

	updated, err := f.service.Transition(ctx, req.ID, "bob", StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(f.now) || updated.UpdatedAt.After(req.UpdatedAt))
}

func TestTransitionReplayRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)

	_, err = f.service.Transition(ctx, req.ID, "bob", StatusAccepted)
	require.NoError(t, err)

	// Terminal states never transition again.
	_, err = f.service.Transition(ctx, req.ID, "bob", StatusRejected)
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.StateConflict))
	assert.Equal(t, faults.ReasonNotPending, faults.ReasonOf(err))
}

func TestBlockSuppressesFutureCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)

	_, err = f.service.Transition(ctx, req.ID, "bob", StatusBlocked)
	require.NoError(t, err)

	_, err = f.service.Create(ctx, "alice", contactDTO("bob"))
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.PolicyDenied))
	assert.Equal(t, faults.ReasonReceiverClosed, faults.ReasonOf(err))
}

type recordedEvent struct {
	kind    audit.EventKind
	allowed bool
	reason  string
}

type recordingEmitter struct {
	events []recordedEvent
}

func (e *recordingEmitter) Emit(ctx context.Context, kind audit.EventKind, allowed bool, reason string, subjectIDs ...string) {
	e.events = append(e.events, recordedEvent{kind: kind, allowed: allowed, reason: reason})
}

func TestCreateDenialsReachAuditStream(t *testing.T) {
	directory := policy.NewMemoryDirectory(5)
	directory.PutMember(policy.Member{ID: "alice", DisplayName: "Alice", Role: policy.RoleSingle})
	directory.PutMember(policy.Member{ID: "bob", DisplayName: "Bob", Role: policy.RoleMarriedLoveModel})

	recorder := &recordingEmitter{}
	svc := NewService(NewMemoryRepository(), directory, recorder)
	ctx := context.Background()

	// Validation denials are decisions too; each must produce an event.
	_, err := svc.Create(ctx, "alice", &CreateRequestDTO{ReceiverID: "alice", Kind: "contact", Message: "hi"})
	require.Error(t, err)

	_, err = svc.Create(ctx, "alice", &CreateRequestDTO{ReceiverID: "bob", Kind: "romance"})
	require.Error(t, err)

	_, err = svc.Create(ctx, "alice", &CreateRequestDTO{ReceiverID: "bob", Kind: "contact"})
	require.Error(t, err)

	require.Len(t, recorder.events, 3)
	for _, event := range recorder.events {
		assert.Equal(t, audit.EventRequestCreated, event.kind)
		assert.False(t, event.allowed)
	}
	assert.Equal(t, faults.ReasonSelfRequest, recorder.events[0].reason)
	assert.Equal(t, "invalid-kind", recorder.events[1].reason)
	assert.Equal(t, "message-required", recorder.events[2].reason)

	// Allowed creates are reported as well.
	_, err = svc.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)
	require.Len(t, recorder.events, 4)
	assert.True(t, recorder.events[3].allowed)

	// An invalid transition target is a denied transition decision.
	_, err = svc.Transition(ctx, "missing", "alice", Status("withdrawn"))
	require.Error(t, err)
	require.Len(t, recorder.events, 5)
	assert.Equal(t, audit.EventRequestTransitioned, recorder.events[4].kind)
	assert.Equal(t, "invalid-status", recorder.events[4].reason)
}

func TestListByDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "alice", contactDTO("bob"))
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.service.Create(ctx, "carol", contactDTO("alice"))
	require.NoError(t, err)

	outgoing, err := f.service.List(ctx, "alice", "outgoing", "")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "bob", outgoing[0].ReceiverID)

	incoming, err := f.service.List(ctx, "alice", "incoming", "")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "carol", incoming[0].SenderID)

	all, err := f.service.List(ctx, "alice", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
