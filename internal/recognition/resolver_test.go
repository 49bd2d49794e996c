package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
	"github.com/theloveculture/tlc-backend/internal/policy"
)

func member(id string, role policy.Role, receptive bool) policy.Member {
	return policy.Member{
		ID:          id,
		DisplayName: id,
		Role:        role,
		Receptive:   receptive,
	}
}

func TestEvaluateTierRules(t *testing.T) {
	tests := []struct {
		name       string
		sender     policy.Member
		receiver   policy.Member
		allowed    bool
		reason     string
	}{
		{
			name:     "single to love model allowed",
			sender:   member("a", policy.RoleSingle, false),
			receiver: member("b", policy.RoleMarriedLoveModel, false),
			allowed:  true,
		},
		{
			name:     "single to single denied",
			sender:   member("a", policy.RoleSingle, false),
			receiver: member("b", policy.RoleSingle, true),
			allowed:  false,
			reason:   faults.ReasonWrongTier,
		},
		{
			name:     "single to partner denied",
			sender:   member("a", policy.RoleSingle, false),
			receiver: member("b", policy.RoleIntentionalPartner, false),
			allowed:  false,
			reason:   faults.ReasonWrongTier,
		},
		{
			name:     "partner to love model allowed",
			sender:   member("a", policy.RoleIntentionalPartner, false),
			receiver: member("b", policy.RoleMarriedLoveModel, false),
			allowed:  true,
		},
		{
			name:     "partner to single denied",
			sender:   member("a", policy.RoleIntentionalPartner, false),
			receiver: member("b", policy.RoleSingle, true),
			allowed:  false,
			reason:   faults.ReasonWrongTier,
		},
		{
			name:     "love model to partner allowed",
			sender:   member("a", policy.RoleMarriedLoveModel, false),
			receiver: member("b", policy.RoleIntentionalPartner, false),
			allowed:  true,
		},
		{
			name:     "love model to receptive single allowed",
			sender:   member("a", policy.RoleMarriedLoveModel, false),
			receiver: member("b", policy.RoleSingle, true),
			allowed:  true,
		},
		{
			name:     "love model to non-receptive single denied",
			sender:   member("a", policy.RoleMarriedLoveModel, false),
			receiver: member("b", policy.RoleSingle, false),
			allowed:  false,
			reason:   faults.ReasonNotReceptive,
		},
		{
			name:     "love model to love model denied",
			sender:   member("a", policy.RoleMarriedLoveModel, false),
			receiver: member("b", policy.RoleMarriedLoveModel, false),
			allowed:  false,
			reason:   faults.ReasonWrongTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.sender, tt.receiver)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestEvaluateCommunityRecipient(t *testing.T) {
	sender := member("a", policy.RoleSingle, false)

	// The community check fires before any tier rule.
	receiver := policy.Member{
		ID:          policy.CommunityMemberID,
		DisplayName: policy.CommunityDisplayName,
		Role:        policy.RoleMarriedLoveModel,
	}

	decision := Evaluate(sender, receiver)
	assert.False(t, decision.Allowed)
	assert.Equal(t, faults.ReasonCommunityRecipient, decision.Reason)

	// Matching by display name alone is enough.
	byName := member("x", policy.RoleMarriedLoveModel, false)
	byName.DisplayName = policy.CommunityDisplayName
	decision = Evaluate(sender, byName)
	assert.False(t, decision.Allowed)
	assert.Equal(t, faults.ReasonCommunityRecipient, decision.Reason)
}

func TestEvaluateSelfTransfer(t *testing.T) {
	// Same canonical id on both sides is denied even when the roles would
	// otherwise satisfy the tier rule.
	sender := member("a", policy.RoleMarriedLoveModel, false)
	receiver := member("a", policy.RoleIntentionalPartner, false)

	decision := Evaluate(sender, receiver)
	assert.False(t, decision.Allowed)
	assert.Equal(t, faults.ReasonSelfTransfer, decision.Reason)

	// Identical member: denied regardless, first failing rule reported.
	same := member("a", policy.RoleSingle, false)
	decision = Evaluate(same, same)
	assert.False(t, decision.Allowed)
}

func TestAllocateSplit(t *testing.T) {
	allocation, err := Allocate(10000, "platform-ref")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), allocation.RecipientShare)
	assert.Equal(t, int64(4000), allocation.PlatformShare)
	assert.Equal(t, "platform-ref", allocation.PlatformAccountRef)
}

func TestAllocateConservation(t *testing.T) {
	// recipientShare(a) + platformShare(a) == a for every positive amount,
	// and the recipient share is the floor of 60%.
	for a := int64(1); a <= 1000; a++ {
		allocation, err := Allocate(a, "ref")
		require.NoError(t, err)
		assert.Equal(t, a, allocation.RecipientShare+allocation.PlatformShare)
		assert.Equal(t, a*6/10, allocation.RecipientShare)
	}

	for _, tier := range Tiers {
		allocation, err := Allocate(tier.Amount, "ref")
		require.NoError(t, err)
		assert.Equal(t, tier.Amount, allocation.RecipientShare+allocation.PlatformShare)
	}
}

func TestAllocateRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int64{0, -1, -10000} {
		_, err := Allocate(amount, "ref")
		require.Error(t, err)
		assert.True(t, faults.Is(err, faults.Validation))
		assert.Equal(t, faults.ReasonInvalidAmount, faults.ReasonOf(err))
	}
}
