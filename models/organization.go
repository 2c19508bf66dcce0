package models

import "time"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	LogoPath    *string   `json:"logo_path"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
)

type Invitation struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	InvitedBy int64     `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitationUsable reports whether an invitation can still be redeemed at
// now. Revoked, accepted and expired invitations all answer 410 upstream.
func InvitationUsable(status string, expiresAt, now time.Time) bool {
	return status == InviteStatusPending && !now.After(expiresAt)
}

func ValidMemberRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// CanManageOrg reports whether a member role may mutate organization
// resources (settings, members, invitations). Owners additionally may delete
// the organization; that check stays at the call site.
func CanManageOrg(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
