package authz

import "github.com/taskdeck/taskdeck/internal/types"

// Capability is the level of access a route requires.
type Capability int

const (
	// Public routes skip authentication entirely.
	Public Capability = iota
	// Authenticated routes require any valid session.
	Authenticated
	// Admin routes additionally require the ADMIN role.
	Admin
)

// Resources and actions the policy table speaks in.
const (
	ResourceAuth      = "auth"
	ResourceProject   = "project"
	ResourceMember    = "member"
	ResourceTask      = "task"
	ResourceDashboard = "dashboard"

	ActionList     = "list"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionAdd      = "add"
	ActionView     = "view"
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionSession  = "session"
)

// policy is the single source of truth for coarse access control:
// every route is registered against one (resource, action) pair.
// Ownership rules finer than a role (a member updating the status of
// their own task) live in the handlers.
var policy = map[string]map[string]Capability{
	ResourceAuth: {
		ActionRegister: Public,
		ActionLogin:    Public,
		ActionSession:  Authenticated,
	},
	ResourceProject: {
		ActionList:   Authenticated,
		ActionCreate: Admin,
		ActionUpdate: Admin,
		ActionDelete: Admin,
	},
	ResourceMember: {
		ActionList: Authenticated,
		ActionAdd:  Admin,
	},
	ResourceTask: {
		ActionList:   Authenticated,
		ActionCreate: Admin,
		ActionUpdate: Authenticated,
		ActionDelete: Admin,
	},
	ResourceDashboard: {
		ActionView: Authenticated,
	},
}

// Required returns the capability a (resource, action) pair demands.
// Unknown pairs default to Admin so a missing table entry fails
// closed.
func Required(resource, action string) Capability {
	actions, ok := policy[resource]
	if !ok {
		return Admin
	}

	capability, ok := actions[action]
	if !ok {
		return Admin
	}

	return capability
}

// Allowed reports whether a role satisfies the capability required
// for the given (resource, action) pair.
func Allowed(role, resource, action string) bool {
	switch Required(resource, action) {
	case Public:
		return true
	case Authenticated:
		return role == types.RoleAdmin || role == types.RoleMember
	case Admin:
		return role == types.RoleAdmin
	}
	return false
}
