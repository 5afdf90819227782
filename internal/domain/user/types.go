package user

// Role is a per-group membership role. It is the tenancy-scoped permission
// level: viewers read, editors mutate coupons, admins additionally cancel
// coupons and manage members.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// AppRole is the application-wide role carried in the JWT. Super admins manage
// stores, multi-coupon definitions and unmapped events, and receive
// unmapped-coupon alert emails.
type AppRole string

const (
	AppRoleMember     AppRole = "member"
	AppRoleSuperAdmin AppRole = "super_admin"
)

func (r AppRole) String() string {
	return string(r)
}

func (r AppRole) IsValid() bool {
	switch r {
	case AppRoleMember, AppRoleSuperAdmin:
		return true
	default:
		return false
	}
}

func NewAppRole(s string) (AppRole, error) {
	role := AppRole(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
