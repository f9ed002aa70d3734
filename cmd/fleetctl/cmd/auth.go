package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/domain"
)

var errNotLoggedIn = domain.ErrNotAuthenticated

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in against the backend and store the returned token and user under
the state directory. The password may also be given in $FLEETCTL_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("FLEETCTL_PASSWORD")
		}
		creds := domain.Credentials{Username: loginUsername, Password: password}
		if creds.Username == "" || creds.Password == "" {
			return errors.New("--username and --password are required")
		}

		client, err := apiClient()
		if err != nil {
			return err
		}
		s, err := consoleSession()
		if err != nil {
			return err
		}

		res, err := client.Login(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		token := res.BearerToken()
		if token == "" || res.User == nil {
			return errors.New("login: the server did not return a session")
		}
		if err := s.Login(cmd.Context(), res.User, token); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Logged in as %s (%s)\n", res.User, cfg.App)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := consoleSession()
		if err != nil {
			return err
		}
		// Apps without a login route have nowhere to navigate to, which is
		// fine on the command line as long as the stored session is gone.
		if err := s.Logout(cmd.Context()); err != nil {
			s.Reload(cmd.Context())
			if s.IsAuthenticated() || !errors.Is(err, domain.ErrRouteNotFound) {
				return err
			}
		}
		fmt.Fprintln(out(cmd), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := consoleSession()
		if err != nil {
			return err
		}
		if !s.IsAuthenticated() {
			return errNotLoggedIn
		}
		if jsonOutput() {
			return writeJSON(out(cmd), s.User())
		}
		fmt.Fprintf(out(cmd), "%s (%s)\n", s.User(), cfg.App)
		if exp, ok := s.TokenExpiry(); ok {
			state := "valid"
			if time.Now().After(exp) {
				state = "expired"
			}
			fmt.Fprintf(out(cmd), "token %s until %s\n", state, exp.Local().Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "user name")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
