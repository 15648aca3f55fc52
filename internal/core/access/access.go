// Package access decides what a session may see and do. Every check in the
// portal goes through Can.
package access

import "github.com/caportal/portal/internal/core/domain"

// Capability is a permission a page or action requires.
type Capability string

const (
	ViewAdmin         Capability = "view_admin"
	ManageClients     Capability = "manage_clients"
	ManageTasks       Capability = "manage_tasks"
	ManageDocuments   Capability = "manage_documents"
	UpdateTaskStatus  Capability = "update_task_status"
	ViewOwnWork       Capability = "view_own_work"
	DownloadDocuments Capability = "download_documents"
)

var grants = map[domain.Role]map[Capability]bool{
	domain.RoleAdmin: {
		ViewAdmin:         true,
		ManageClients:     true,
		ManageTasks:       true,
		ManageDocuments:   true,
		UpdateTaskStatus:  true,
		DownloadDocuments: true,
	},
	domain.RoleClient: {
		UpdateTaskStatus:  true,
		ViewOwnWork:       true,
		DownloadDocuments: true,
	},
}

// Can reports whether the session holds the capability. A nil session holds
// none.
func Can(s *domain.Session, c Capability) bool {
	if s == nil {
		return false
	}
	return grants[s.Role][c]
}

const (
	LoginPath  = "/login"
	ClientHome = "/client"
	AdminHome  = "/admin"
)

// Decision is a guard's verdict. Redirect is set when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision { return Decision{Allowed: true} }

func redirect(to string) Decision { return Decision{Redirect: to} }

// Guard inspects the current session and decides whether a route renders.
// Guards never modify the session.
type Guard func(*domain.Session) Decision

// Authenticated lets through any signed-in user.
func Authenticated(s *domain.Session) Decision {
	if s == nil {
		return redirect(LoginPath)
	}
	return allow()
}

// AdminOnly lets through administrators and sends everyone else to their own
// home.
func AdminOnly(s *domain.Session) Decision {
	switch {
	case s == nil:
		return redirect(LoginPath)
	case !Can(s, ViewAdmin):
		return redirect(ClientHome)
	}
	return allow()
}

// Home is where a freshly signed-in user lands.
func Home(s *domain.Session) string {
	switch {
	case s == nil:
		return LoginPath
	case Can(s, ViewAdmin):
		return AdminHome
	}
	return ClientHome
}
