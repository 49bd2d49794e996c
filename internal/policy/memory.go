// internal/policy/memory.go
// In-memory Directory for tests and local development.

package policy

import (
	"context"
	"sync"
)

type MemoryDirectory struct {
	mu                sync.RWMutex
	members           map[string]Member
	policies          map[string]PrivacyPolicy
	defaultDailyLimit int
}

func NewMemoryDirectory(defaultDailyLimit int) *MemoryDirectory {
	return &MemoryDirectory{
		members:           make(map[string]Member),
		policies:          make(map[string]PrivacyPolicy),
		defaultDailyLimit: defaultDailyLimit,
	}
}

// PutMember seeds a member record.
func (d *MemoryDirectory) PutMember(m Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[m.ID] = m
}

func (d *MemoryDirectory) GetMember(ctx context.Context, id string) (*Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	copy := m
	return &copy, nil
}

func (d *MemoryDirectory) GetPolicy(ctx context.Context, memberID string) (*PrivacyPolicy, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.policies[memberID]
	if !ok {
		return DefaultPolicy(memberID, d.defaultDailyLimit), nil
	}
	copy := p
	return &copy, nil
}

func (d *MemoryDirectory) UpdatePolicy(ctx context.Context, p *PrivacyPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.policies[p.MemberID] = *p
	return nil
}
