package handler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
)

// Shell is the chrome a page renders in.
type Shell string

const (
	AdminShell  Shell = "admin"
	ClientShell Shell = "client"
)

const (
	brand      = "CA Portal"
	logoutPath = "/logout"
)

type NavItem struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

type UserBadge struct {
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	Initial string      `json:"initial"`
}

// Layout is the shell block of a page: who is signed in, where they can go
// and how to leave.
type Layout struct {
	Shell    Shell      `json:"shell"`
	Brand    string     `json:"brand"`
	Subtitle string     `json:"subtitle"`
	Title    string     `json:"title"`
	User     *UserBadge `json:"user,omitempty"`
	Nav      []NavItem  `json:"nav"`
	Logout   string     `json:"logout"`
}

type navEntry struct {
	label string
	path  string
	need  access.Capability // empty: any signed-in user
}

var navigation = map[Shell][]navEntry{
	AdminShell: {
		{"Dashboard", "/admin", access.ViewAdmin},
		{"Clients", "/admin/clients", access.ManageClients},
		{"Tasks", "/admin/tasks", access.ManageTasks},
		{"Documents", "/admin/documents", access.ManageDocuments},
	},
	ClientShell: {
		{"Dashboard", "/client", ""},
		{"Tasks", "/client/tasks", access.UpdateTaskStatus},
		{"Documents", "/client/documents", access.DownloadDocuments},
	},
}

var subtitles = map[Shell]string{
	AdminShell:  "Admin Dashboard",
	ClientShell: "Client Portal",
}

// newLayout builds the shell for the current request.
func newLayout(c echo.Context, shell Shell, title string) *Layout {
	s := middleware.CurrentUser(c)
	current := c.Request().URL.Path

	l := &Layout{
		Shell:    shell,
		Brand:    brand,
		Subtitle: subtitles[shell],
		Title:    title,
		Nav:      []NavItem{},
		Logout:   logoutPath,
	}
	if s != nil {
		l.User = &UserBadge{Name: s.Name, Email: s.Email, Role: s.Role, Initial: initial(s.Name)}
	}
	for i, n := range navigation[shell] {
		if s == nil || (n.need != "" && !access.Can(s, n.need)) {
			continue
		}
		// The dashboard entry is a prefix of every other one.
		active := current == n.path
		if i > 0 {
			active = active || strings.HasPrefix(current, n.path+"/")
		}
		l.Nav = append(l.Nav, NavItem{Label: n.label, Path: n.path, Active: active})
	}
	return l
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
