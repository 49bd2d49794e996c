// internal/policy/models.go

package policy

import (
	"strings"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

// Role is the closed set of member roles. Roles are compared by exact value,
// never by substring matching on display labels.
type Role string

const (
	RoleSingle             Role = "single"
	RoleIntentionalPartner Role = "intentional_partner"
	RoleMarriedLoveModel   Role = "married_love_model"
)

// ParseRole normalizes a label once at the boundary and maps it into the
// closed enumeration. Unknown labels are a validation error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSingle:
		return RoleSingle, nil
	case RoleIntentionalPartner:
		return RoleIntentionalPartner, nil
	case RoleMarriedLoveModel:
		return RoleMarriedLoveModel, nil
	}
	return "", faults.New(faults.Validation, faults.ReasonUnknownRole)
}

// Valid reports whether the role is a member of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSingle, RoleIntentionalPartner, RoleMarriedLoveModel:
		return true
	}
	return false
}

// The aggregate community account is not an individually named member and
// can never receive recognition tokens.
const (
	CommunityMemberID    = "the-community"
	CommunityDisplayName = "The Community"
)

// Member is a platform participant. The record is owned by the identity
// subsystem; the engine reads it read-only.
type Member struct {
	ID          string `json:"id" db:"id"`
	DisplayName string `json:"display_name" db:"display_name"`
	Role        Role   `json:"role" db:"role"`
	// Receptive is only meaningful for Singles: an opt-in to receive
	// supportive tokens from Love Models.
	Receptive bool `json:"receptive" db:"receptive"`
	Verified  bool `json:"verified" db:"verified"`
}

// IsCommunity reports whether the member is the aggregate community
// pseudo-recipient rather than an individually named member.
func (m Member) IsCommunity() bool {
	return m.ID == CommunityMemberID || m.DisplayName == CommunityDisplayName
}

// PrivacyPolicy is a member's consent and anti-spam configuration. Mutated
// only by its owning member.
type PrivacyPolicy struct {
	MemberID                string `json:"member_id" db:"member_id"`
	AllowDirectMessages     bool   `json:"allow_dms" db:"allow_dms"`
	AllowConnectionRequests bool   `json:"allow_connection_requests" db:"allow_connection_requests"`
	// DailyRequestLimit bounds outgoing requests per rolling 24h window,
	// counted by the request lifecycle manager.
	DailyRequestLimit int    `json:"daily_request_limit" db:"daily_request_limit"`
	VisibleToRoles    []Role `json:"visible_to_roles" db:"-"`
}

// Validate checks policy bounds and the role set.
func (p *PrivacyPolicy) Validate() error {
	if p.DailyRequestLimit < 0 {
		return faults.New(faults.Validation, "invalid-daily-request-limit")
	}
	for _, r := range p.VisibleToRoles {
		if !r.Valid() {
			return faults.New(faults.Validation, faults.ReasonUnknownRole)
		}
	}
	return nil
}

// CanView reports whether a member with the viewer role may see the profile
// governed by this policy. An empty role set means visible to everyone.
func (p *PrivacyPolicy) CanView(viewer Role) bool {
	if len(p.VisibleToRoles) == 0 {
		return true
	}
	for _, r := range p.VisibleToRoles {
		if r == viewer {
			return true
		}
	}
	return false
}

// DefaultPolicy is the policy applied before a member has saved one. The
// settings row is created lazily, so reads must fall back to these defaults.
func DefaultPolicy(memberID string, dailyLimit int) *PrivacyPolicy {
	return &PrivacyPolicy{
		MemberID:                memberID,
		AllowDirectMessages:     true,
		AllowConnectionRequests: true,
		DailyRequestLimit:       dailyLimit,
	}
}
