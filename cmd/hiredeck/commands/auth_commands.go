package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hiredeck/hiredeck-go/session"
)

func (a *app) loginCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a one-time code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != string(session.RoleJobSeeker) && role != string(session.RoleEmployer) {
				return errors.Errorf("invalid role %q, want %s or %s", role, session.RoleJobSeeker, session.RoleEmployer)
			}

			ctx := cmd.Context()
			reader := bufio.NewReader(cmd.InOrStdin())

			fmt.Fprint(cmd.OutOrStdout(), "Email or phone: ")
			identifier, err := reader.ReadString('\n')
			if err != nil {
				return errors.Wrap(err, "read identifier")
			}
			identifier = strings.TrimSpace(identifier)

			if err := a.manager.RequestOTP(ctx, identifier); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Code sent.")

			fmt.Fprint(cmd.OutOrStdout(), "Code: ")
			otp, err := reader.ReadString('\n')
			if err != nil {
				return errors.Wrap(err, "read code")
			}

			if err := a.manager.VerifyOTP(ctx, identifier, strings.TrimSpace(otp), session.RoleType(role)); err != nil {
				return err
			}

			state := a.manager.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", state.User.Identifier, state.User.Role)
			if state.User.IsNewUser {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome! Create a profile with `hiredeck profiles create`.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(session.RoleJobSeeker), "role to log in as (job_seeker or employer)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.manager.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := a.manager.Bootstrap(cmd.Context())
			if !state.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", state.User.Identifier, state.User.Role)
			return nil
		},
	}
}
