// Package cli is portalctl: the portal's state container driven from a
// terminal. The session lives in a local file, one profile per namespace.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/infrastructure/apiclient"
	"github.com/caportal/portal/internal/infrastructure/config"
	"github.com/caportal/portal/internal/infrastructure/sessionstore"
	"github.com/caportal/portal/pkg/logger"
)

const defaultProfile = "default"

type app struct {
	apiURL      string
	profile     string
	sessionFile string
	verbose     bool
	asJSON      bool

	downloadDir string
	state       *state.Container
}

// NewRootCommand builds the portalctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "portalctl",
		Short:             "Work with the client-services portal from a terminal",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.apiURL, "api", "", "backend base URL (default $API_BASE_URL)")
	f.StringVar(&a.profile, "profile", defaultProfile, "session profile")
	f.StringVar(&a.sessionFile, "session-file", "", "session file (default $SESSION_FILE, then the user config dir)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log store operations to stderr")
	f.BoolVar(&a.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.clientsCmd(),
		a.tasksCmd(),
		a.documentsCmd(),
	)
	return root
}

// Execute runs portalctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Output: cmd.ErrOrStderr(), Service: "portalctl"})

	if a.apiURL == "" {
		a.apiURL = cfg.API.BaseURL
	}
	path := a.sessionFile
	if path == "" {
		path = cfg.Session.File
	}
	if path == "" {
		if path, err = sessionstore.DefaultPath(); err != nil {
			return err
		}
	}
	a.downloadDir = cfg.DownloadDir

	sessions := sessionstore.NewFile(path, cfg.Session.Secret)
	factory := apiclient.Containers(apiclient.Config{BaseURL: a.apiURL, Timeout: cfg.API.Timeout}, nil, sessions, log, nil)
	a.state = factory(a.profile)
	if err := a.state.Start(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

// require returns the signed-in session when it holds capability c.
func (a *app) require(ctx context.Context, c access.Capability) (*domain.Session, error) {
	a.state.Auth.ExpireIfStale(ctx, time.Now())
	s := a.state.Auth.Session()
	switch {
	case s == nil:
		return nil, fmt.Errorf("%w: run portalctl login", domain.ErrNotAuthenticated)
	case c != "" && !access.Can(s, c):
		return nil, fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, s.Role, c)
	}
	return s, nil
}

func (a *app) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
