package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationUsable(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		status    string
		expiresAt time.Time
		usable    bool
	}{
		{"pending before expiry", InviteStatusPending, now.Add(24 * time.Hour), true},
		{"pending at expiry instant", InviteStatusPending, now, true},
		{"pending expired", InviteStatusPending, now.Add(-time.Second), false},
		{"revoked", InviteStatusRevoked, now.Add(24 * time.Hour), false},
		{"already accepted", InviteStatusAccepted, now.Add(24 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.usable, InvitationUsable(tc.status, tc.expiresAt, now))
		})
	}
}

func TestValidMemberRole(t *testing.T) {
	assert.True(t, ValidMemberRole(RoleAdmin))
	assert.True(t, ValidMemberRole(RoleMember))
	// owner is assigned at creation, never via invite or role change
	assert.False(t, ValidMemberRole(RoleOwner))
	assert.False(t, ValidMemberRole("superuser"))
}

func TestCanManageOrg(t *testing.T) {
	assert.True(t, CanManageOrg(RoleOwner))
	assert.True(t, CanManageOrg(RoleAdmin))
	assert.False(t, CanManageOrg(RoleMember))
	assert.False(t, CanManageOrg(""))
}
