package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if err := a.state.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			s := a.state.Auth.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", s.Name, s.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.state.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.require(cmd.Context(), "")
			if err != nil {
				return err
			}
			if a.asJSON {
				out := *s
				out.Token = ""
				return a.printJSON(cmd.OutOrStdout(), out)
			}
			expires := "never"
			if !s.ExpiresAt.IsZero() {
				expires = s.ExpiresAt.Local().Format(time.RFC1123)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nrole: %s\nexpires: %s\n", s.Name, s.Email, s.Role, expires)
			return nil
		},
	}
}
