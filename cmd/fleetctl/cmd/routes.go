package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Inspect the route table of the selected app",
}

var routesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every route with its view and layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := routeTable()
		if err != nil {
			return err
		}
		entries := t.Routes()
		if jsonOutput() {
			return writeJSON(out(cmd), entries)
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			target := e.View
			if e.IsRedirect() {
				target = "-> " + e.Redirect
			}
			rows = append(rows, []string{e.Path, e.Name, target, strings.Join(e.Layouts, " > ")})
		}
		return table(out(cmd), []string{"PATH", "NAME", "VIEW", "LAYOUTS"}, rows)
	},
}

var routesResolveCmd = &cobra.Command{
	Use:   "resolve PATH",
	Short: "Resolve a path, following redirects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := routeTable()
		if err != nil {
			return err
		}
		m, err := t.Resolve(args[0])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(out(cmd), m)
		}
		return keyValues(out(cmd), map[string]any{
			"path":      m.Entry.Path,
			"name":      m.Entry.Name,
			"view":      m.Entry.View,
			"layouts":   strings.Join(m.Entry.Layouts, " > "),
			"redirects": strings.Join(m.Redirects, " -> "),
		})
	},
}

func init() {
	routesCmd.AddCommand(routesListCmd, routesResolveCmd)
	rootCmd.AddCommand(routesCmd)
}
