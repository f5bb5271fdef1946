package models

// Staff roles recognized by the upstream API. A user has at most one.
const (
	RoleInventoryManager = "gestor_inventario"
	RoleSecurityAuditor  = "auditor_seguridad"
	RoleAnalyst          = "analista"
	RoleSalesperson      = "vendedor"
	RoleAdminStaff       = "staff_administrativo"
)

// Identity is the authenticated principal's profile as reported by the
// upstream API. Absence of an Identity means the session is anonymous.
type Identity struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	IsAdmin     bool    `json:"is_admin"`
	TOTPEnabled bool    `json:"totp_enabled"`
	Role        *string `json:"role,omitempty"`
}

// HasRole reports whether the identity carries one of the given role labels.
// Admins pass every role check.
func (u *Identity) HasRole(roles ...string) bool {
	if u.IsAdmin {
		return true
	}
	if u.Role == nil {
		return false
	}
	for _, r := range roles {
		if *u.Role == r {
			return true
		}
	}
	return false
}

// Session couples a bearer credential with the identity it was issued for.
// It lives in the tab-scoped storage slot and never outlives the token.
type Session struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
