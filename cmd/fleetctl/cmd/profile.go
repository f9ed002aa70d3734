package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/domain"
)

var profileRemote bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored user, or the backend's copy with --remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := consoleSession()
		if err != nil {
			return err
		}
		if !s.IsAuthenticated() {
			return errNotLoggedIn
		}

		user := s.User()
		if profileRemote {
			client, err := apiClient()
			if err != nil {
				return err
			}
			if user, err = client.Profile(cmd.Context()); err != nil {
				return err
			}
		}
		if jsonOutput() {
			return writeJSON(out(cmd), user)
		}
		return keyValues(out(cmd), user)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update key=value...",
	Short: "Change profile fields",
	Long: `Send the given fields to the backend and merge the result into the stored
user. Fields that are not named keep their current value.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		partial, err := parseAssignments(args)
		if err != nil {
			return err
		}
		s, err := consoleSession()
		if err != nil {
			return err
		}
		if !s.IsAuthenticated() {
			return errNotLoggedIn
		}
		client, err := apiClient()
		if err != nil {
			return err
		}

		updated, err := client.UpdateProfile(cmd.Context(), partial)
		if err != nil {
			return err
		}
		if len(updated) > 0 {
			partial = updated
		}
		if err := s.UpdateUser(cmd.Context(), partial); err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(out(cmd), s.User())
		}
		return keyValues(out(cmd), s.User())
	},
}

func parseAssignments(args []string) (domain.Profile, error) {
	p := domain.Profile{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", arg)
		}
		p[key] = value
	}
	return p, nil
}

func toParams(m map[string]string) apiclient.Params {
	if len(m) == 0 {
		return nil
	}
	return apiclient.Params(m)
}

func init() {
	profileShowCmd.Flags().BoolVar(&profileRemote, "remote", false, "fetch the profile from the backend")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
