package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the fleetctl version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(out(cmd), "fleetctl %s (app %s)\n", app.Version, cfg.App)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
