package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/storage"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Local session tools",
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print session changes made by other fleetctl processes",
	Long: `watch follows the session files in the state directory and prints an
event each time another process logs in, logs out or updates the profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := consoleSession()
		if err != nil {
			return err
		}
		bus, err := eventBus()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := out(cmd)
		err = pubsub.Subscribe(ctx, bus, session.Changed, func(_ context.Context, key string, ev session.Event) error {
			if key != s.Key() {
				return nil
			}
			if jsonOutput() {
				return writeJSON(w, ev)
			}
			who := ev.User.String()
			if who == "" {
				who = "-"
			}
			_, err := fmt.Fprintf(w, "%s\tauthenticated=%t\tuser=%s\n", ev.Kind, ev.Authenticated, who)
			return err
		})
		if err != nil {
			return err
		}

		watcher, err := storage.NewWatcher(cfg.StateDir, storage.KeyToken, storage.KeyUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", cfg.StateDir)
		watcher.Run(ctx, func(string) {
			s.Reload(ctx)
		})
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionWatchCmd)
	rootCmd.AddCommand(sessionCmd)
}
