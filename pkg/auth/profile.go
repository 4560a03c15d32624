package auth

import "gitlab.com/horizonten/gemenskap/pkg/profiles"

// Role is a member's access level.
type Role string

const (
	RoleMember    Role = "medlem"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// NormalizeRole maps unknown role strings to RoleMember.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleMember, RoleModerator, RoleAdmin:
		return Role(role)
	default:
		return RoleMember
	}
}

// Privileged reports whether the role may open the admin view.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// UserProfile is the portal's own view of a signed-in member. Storage rows
// are mapped into it at the boundary so nothing else depends on their shape.
type UserProfile struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
}

// Privileged reports whether the profile may open the admin view.
func (p UserProfile) Privileged() bool {
	return p.Role.Privileged()
}

// ProfileFromRow maps a stored profile into a UserProfile.
func ProfileFromRow(p profiles.Profile) UserProfile {
	name := p.DisplayName
	if name == "" {
		name = p.Email
	}
	return UserProfile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: name,
		Role:        NormalizeRole(p.Role),
	}
}
