package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Home view data",
}

var homeOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the fleet summary counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		o, err := client.HomeOverview(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(out(cmd), o)
		}
		return table(out(cmd), []string{"DEVICES", "MODAL TYPES", "SECURITY EVENTS", "DISPATCH TASKS"}, [][]string{{
			strconv.Itoa(o.DeviceCount),
			strconv.Itoa(o.ModalTypes),
			strconv.Itoa(o.SecurityEvents),
			strconv.Itoa(o.DispatchTasks),
		}})
	},
}

var homeDeploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "List deployment sites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		deployments, err := client.HomeDeployments(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(out(cmd), deployments)
		}
		rows := make([][]string, 0, len(deployments))
		for _, d := range deployments {
			rows = append(rows, []string{
				d.Name,
				fmt.Sprintf("%.4f,%.4f", d.Value[0], d.Value[1]),
				strconv.Itoa(d.Devices),
				d.Status,
			})
		}
		return table(out(cmd), []string{"NAME", "LNG,LAT", "DEVICES", "STATUS"}, rows)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend health endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		h, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "%s %s\n", client.BaseURL(), h.Status)
		return nil
	},
}

func init() {
	homeCmd.AddCommand(homeOverviewCmd)
	homeCmd.AddCommand(homeDeploymentsCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(healthCmd)
}
