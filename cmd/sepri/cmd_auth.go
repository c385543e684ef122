package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sepri/internal/domain"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login --email <email> --password <password>",
	Short: "Start an administrator session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := current.sessions.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return explain(err)
		}
		// A new session shows every notice again.
		if err := current.repo.ResetDismissed(cmd.Context()); err != nil {
			current.logger.Warn("failed to reset dismissed notices", "error", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", session.Email, session.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the administrator session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.sessions.Logout(cmd.Context()); err != nil {
			return explain(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := current.sessions.Current(cmd.Context())
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "visitor (not logged in)")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) since %s\n",
			session.Email, session.Role, session.LoggedInAt.Format(time.DateTime))
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List administrator accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireManager(cmd.Context()); err != nil {
			return err
		}
		users, err := current.users.Users(cmd.Context())
		if err != nil {
			return explain(err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return w.Flush()
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <user-id>",
	Short: "Generate a new password for an account",
	Long: `Generate a new random password for an account. The password is printed
once and cannot be recovered afterwards. Only the creator role may do this.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireRole(cmd.Context(), domain.RoleCreator); err != nil {
			return explain(err)
		}

		password, err := current.users.ResetPassword(cmd.Context(), args[0])
		if err != nil {
			return explain(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "new password for %s: %s\nshare it now, it will not be shown again\n", args[0], password)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, usersCmd)
}
