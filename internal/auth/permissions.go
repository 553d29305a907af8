package auth

// Role is the application-level role stored on the user record. Roles are
// immutable once assigned; only a users.manage holder may change them.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
	RoleClient         Role = "client"
)

// Capability tokens use the <entity>.<action> namespace.
const (
	CapCompanyManage  = "company.manage"
	CapUsersManage    = "users.manage"
	CapProjectsCreate = "projects.create"
	CapProjectsUpdate = "projects.update"
	CapProjectsDelete = "projects.delete"
	CapProjectsView   = "projects.view"
	CapTicketsCreate  = "tickets.create"
	CapTicketsUpdate  = "tickets.update"
	CapTicketsDelete  = "tickets.delete"
	CapTicketsView    = "tickets.view"
	CapTimeManage     = "time.manage"
	CapTimeViewAll    = "time.view_all"
	CapReportsView    = "reports.view"
)

// rolePermissions lists each role's capability set explicitly. There is no
// inheritance between roles: project_manager is not "admin minus some".
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		CapCompanyManage,
		CapUsersManage,
		CapProjectsCreate,
		CapProjectsUpdate,
		CapProjectsDelete,
		CapProjectsView,
		CapTicketsCreate,
		CapTicketsUpdate,
		CapTicketsDelete,
		CapTicketsView,
		CapTimeViewAll,
		CapReportsView,
	},
	RoleProjectManager: {
		CapProjectsCreate,
		CapProjectsUpdate,
		CapProjectsView,
		CapTicketsCreate,
		CapTicketsUpdate,
		CapTicketsDelete,
		CapTicketsView,
		CapTimeViewAll,
		CapReportsView,
	},
	RoleTeamMember: {
		CapProjectsView,
		CapTicketsCreate,
		CapTicketsUpdate,
		CapTicketsView,
		CapTimeManage,
	},
	RoleClient: {
		CapProjectsView,
		CapTicketsView,
	},
}

// HasPermission reports whether role is granted capability. Unknown roles map
// to the empty capability set and unknown capabilities evaluate to false; the
// function never errors. This check is advisory at the application layer, the
// storage layer enforces tenant scoping as the hard boundary.
func HasPermission(role Role, capability string) bool {
	for _, c := range rolePermissions[role] {
		if c == capability {
			return true
		}
	}
	return false
}

func CanManageCompany(role Role) bool {
	return HasPermission(role, CapCompanyManage)
}

func CanManageUsers(role Role) bool {
	return HasPermission(role, CapUsersManage)
}

func CanCreateProject(role Role) bool {
	return HasPermission(role, CapProjectsCreate)
}

func CanDeleteProject(role Role) bool {
	return HasPermission(role, CapProjectsDelete)
}

func CanViewAllTimeEntries(role Role) bool {
	return HasPermission(role, CapTimeViewAll)
}

func CanManageTime(role Role) bool {
	return HasPermission(role, CapTimeManage)
}

func IsAdmin(role Role) bool {
	return role == RoleAdmin
}

func IsProjectManager(role Role) bool {
	return role == RoleProjectManager
}

func IsTeamMember(role Role) bool {
	return role == RoleTeamMember
}

func IsClient(role Role) bool {
	return role == RoleClient
}
