package domain

// Role is a named grant held by an actor. Stage authority for each role is
// resolved by the authority package; nothing else may interpret role strings.
type Role string

const (
	RoleEmployee          Role = "employee"
	RoleSupervisor        Role = "supervisor"
	RoleManager           Role = "manager"
	RoleHR                Role = "hr"
	RolePayroll           Role = "payroll"
	RoleSupervisorManager Role = "supervisor_manager"
	RoleHRPayroll         Role = "hr_payroll"
	RoleAdmin             Role = "admin"
)

// ParseRole returns the Role for a raw string. Unknown strings pass through
// unchanged: the authority resolver fails closed on anything it does not
// recognize, so parsing is deliberately permissive.
func ParseRole(s string) Role { return Role(s) }

// ActorContext identifies who is performing an operation. It is resolved
// once by the auth middleware and passed explicitly into every service
// call; there is no implicit current-user global.
type ActorContext struct {
	ID       EmployeeID
	TenantID TenantID
	Roles    []Role
}

// HasRole reports whether the actor holds the given role.
func (a ActorContext) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the administrative role.
func (a ActorContext) IsAdmin() bool { return a.HasRole(RoleAdmin) }

// IsNil reports whether the actor is unresolved.
func (a ActorContext) IsNil() bool { return a.ID.IsNil() }
