package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/app"
	"github.com/nfrund/fleetconsole/internal/config"
	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/logging"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
)

var (
	// fsys backs the session files; tests swap in a memory filesystem.
	fsys afero.Fs = afero.NewOsFs()

	overrides    config.Overrides
	outputFormat string

	cfg      *config.Config
	injector *do.RootScope
)

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Command-line client for the fleet consoles",
	Long: `fleetctl talks to the backend of a fleet console app (dashboard, traffic,
admin, mmiiot, plm or fms) with the same session the web console uses.

The session token and user are kept under the state directory, one file
per key, so every command after "fleetctl login" is authenticated.

Use "fleetctl [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute executes the root command
func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", explain(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overrides.App, "app", "", "console app (dashboard, traffic, admin, mmiiot, plm, fms); default $APP or admin")
	rootCmd.PersistentFlags().StringVar(&overrides.APIBaseURL, "api", "", "backend base URL; default $API_BASE_URL")
	rootCmd.PersistentFlags().StringVar(&overrides.StateDir, "state-dir", "", "directory holding the session; default $STATE_DIR")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "output format: table or json")
}

func setup(cmd *cobra.Command, args []string) error {
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("invalid --format %q: want table or json", outputFormat)
	}
	c, err := config.New()
	if err != nil {
		return err
	}
	if err := c.Apply(overrides); err != nil {
		return err
	}
	logging.Setup(c.LogFormat, c.LogLevel)

	shutdown()
	cfg = c
	injector = app.New(cfg, fsys)
	app.WithLocalSession(injector)
	return nil
}

func shutdown() {
	if injector != nil {
		injector.Shutdown()
		injector = nil
	}
}

func consoleSession() (*session.Session, error) {
	return do.Invoke[*session.Session](injector)
}

func apiClient() (*apiclient.Client, error) {
	return do.Invoke[*apiclient.Client](injector)
}

func routeTable() (*router.Table, error) {
	return do.Invoke[*router.Table](injector)
}

func eventBus() (*pubsub.WatermillBridge, error) {
	return do.Invoke[*pubsub.WatermillBridge](injector)
}

// explain adds a hint to errors a user can act on.
func explain(err error) error {
	switch {
	case apiclient.IsUnauthorized(err):
		return fmt.Errorf("%w (the session may have expired; run \"fleetctl login\")", err)
	case errors.Is(err, errNotLoggedIn):
		return fmt.Errorf("%w; run \"fleetctl login\"", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w (check the ID and --app %s)", err, cfg.App)
	}
	return err
}
