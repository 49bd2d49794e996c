package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"single", RoleSingle},
		{"Single", RoleSingle},
		{"  SINGLE  ", RoleSingle},
		{"intentional_partner", RoleIntentionalPartner},
		{"married_love_model", RoleMarriedLoveModel},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRoleRejectsUnknownLabels(t *testing.T) {
	// The enumeration is closed: labels that merely contain a role word
	// must not parse. Substring matching is exactly the bug this guards
	// against.
	for _, in := range []string{"", "admin", "partner", "married", "ex-single", "intentional partners"} {
		_, err := ParseRole(in)
		require.Error(t, err, in)
		assert.True(t, faults.Is(err, faults.Validation))
		assert.Equal(t, faults.ReasonUnknownRole, faults.ReasonOf(err))
	}
}

func TestPrivacyPolicyValidate(t *testing.T) {
	p := DefaultPolicy("m1", 5)
	require.NoError(t, p.Validate())

	p.DailyRequestLimit = -1
	require.Error(t, p.Validate())

	p.DailyRequestLimit = 0
	p.VisibleToRoles = []Role{"stranger"}
	require.Error(t, p.Validate())
}

func TestPrivacyPolicyCanView(t *testing.T) {
	p := DefaultPolicy("m1", 5)

	// Empty set means visible to everyone.
	assert.True(t, p.CanView(RoleSingle))
	assert.True(t, p.CanView(RoleMarriedLoveModel))

	p.VisibleToRoles = []Role{RoleMarriedLoveModel}
	assert.False(t, p.CanView(RoleSingle))
	assert.True(t, p.CanView(RoleMarriedLoveModel))
}

func TestMemberIsCommunity(t *testing.T) {
	assert.True(t, Member{ID: CommunityMemberID}.IsCommunity())
	assert.True(t, Member{ID: "x", DisplayName: CommunityDisplayName}.IsCommunity())
	assert.False(t, Member{ID: "x", DisplayName: "Alice"}.IsCommunity())
}

func TestMemoryDirectoryDefaultsPolicy(t *testing.T) {
	d := NewMemoryDirectory(5)
	d.PutMember(Member{ID: "m1", DisplayName: "M1", Role: RoleSingle})

	p, err := d.GetPolicy(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, p.AllowDirectMessages)
	assert.True(t, p.AllowConnectionRequests)
	assert.Equal(t, 5, p.DailyRequestLimit)
}
