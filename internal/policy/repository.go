// internal/policy/repository.go

package policy

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/theloveculture/tlc-backend/internal/common/faults"
)

var ErrMemberNotFound = errors.New("member not found")

// Directory is the engine's read view of the identity subsystem plus the
// owner-mutable privacy policy.
type Directory interface {
	GetMember(ctx context.Context, id string) (*Member, error)
	GetPolicy(ctx context.Context, memberID string) (*PrivacyPolicy, error)
	UpdatePolicy(ctx context.Context, p *PrivacyPolicy) error
}

type postgresDirectory struct {
	db *sqlx.DB
	// defaultDailyLimit seeds policies for members without a saved row
	defaultDailyLimit int
}

// NewPostgresDirectory creates a Directory backed by the shared member and
// privacy_settings tables.
func NewPostgresDirectory(db *sqlx.DB, defaultDailyLimit int) Directory {
	return &postgresDirectory{db: db, defaultDailyLimit: defaultDailyLimit}
}

func (d *postgresDirectory) GetMember(ctx context.Context, id string) (*Member, error) {
	var m Member
	query := `
        SELECT id, display_name, role, receptive, verified
        FROM members
        WHERE id = $1
    `

	err := d.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, faults.Dependency(err)
	}

	return &m, nil
}

func (d *postgresDirectory) GetPolicy(ctx context.Context, memberID string) (*PrivacyPolicy, error) {
	var row struct {
		MemberID                string         `db:"member_id"`
		AllowDirectMessages     bool           `db:"allow_dms"`
		AllowConnectionRequests bool           `db:"allow_connection_requests"`
		DailyRequestLimit       int            `db:"daily_request_limit"`
		VisibleToRoles          pq.StringArray `db:"visible_to_roles"`
	}

	query := `
        SELECT member_id, allow_dms, allow_connection_requests,
               daily_request_limit, visible_to_roles
        FROM privacy_settings
        WHERE member_id = $1
    `

	err := d.db.GetContext(ctx, &row, query, memberID)
	if err == sql.ErrNoRows {
		// Settings rows are created lazily; absent means defaults.
		return DefaultPolicy(memberID, d.defaultDailyLimit), nil
	}
	if err != nil {
		return nil, faults.Dependency(err)
	}

	p := &PrivacyPolicy{
		MemberID:                row.MemberID,
		AllowDirectMessages:     row.AllowDirectMessages,
		AllowConnectionRequests: row.AllowConnectionRequests,
		DailyRequestLimit:       row.DailyRequestLimit,
	}
	for _, r := range row.VisibleToRoles {
		p.VisibleToRoles = append(p.VisibleToRoles, Role(r))
	}

	return p, nil
}

func (d *postgresDirectory) UpdatePolicy(ctx context.Context, p *PrivacyPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	roles := make(pq.StringArray, 0, len(p.VisibleToRoles))
	for _, r := range p.VisibleToRoles {
		roles = append(roles, string(r))
	}

	query := `
        INSERT INTO privacy_settings (
            member_id, allow_dms, allow_connection_requests,
            daily_request_limit, visible_to_roles, updated_at
        ) VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
        ON CONFLICT (member_id) DO UPDATE SET
            allow_dms = EXCLUDED.allow_dms,
            allow_connection_requests = EXCLUDED.allow_connection_requests,
            daily_request_limit = EXCLUDED.daily_request_limit,
            visible_to_roles = EXCLUDED.visible_to_roles,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := d.db.ExecContext(
		ctx, query,
		p.MemberID, p.AllowDirectMessages, p.AllowConnectionRequests,
		p.DailyRequestLimit, roles,
	)
	if err != nil {
		return faults.Dependency(err)
	}

	return nil
}
