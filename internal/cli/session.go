package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored backend session",
	}
	cmd.AddCommand(newSessionStatusCmd(app))
	cmd.AddCommand(newSessionLoginCmd(app))
	cmd.AddCommand(newSessionLogoutCmd(app))
	return cmd
}

func newSessionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:   %s\n", rt.cfg.BackendURL)
			fmt.Fprintf(out, "device id: %s\n", rt.session.DeviceID())
			if rt.session.LoggedIn() {
				fmt.Fprintf(out, "user:      %s (logged in)\n", rt.session.UserID())
			} else {
				fmt.Fprintln(out, "user:      (logged out)")
			}
			return nil
		},
	}
}

func newSessionLoginCmd(app *App) *cobra.Command {
	var user, token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || token == "" {
				return fmt.Errorf("both --user and --token are required")
			}
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.session.SetLogin(user, token); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id")
	cmd.Flags().StringVar(&token, "token", "", "Session token (sent as X-Session-ID)")
	return cmd
}

func newSessionLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(app, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.session.Logout(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
