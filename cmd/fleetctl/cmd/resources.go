package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nfrund/fleetconsole/internal/apiclient"
)

type (
	listFunc   func(*apiclient.Client, context.Context, apiclient.Params) (json.RawMessage, error)
	idFunc     func(*apiclient.Client, context.Context, string) (json.RawMessage, error)
	createFunc func(*apiclient.Client, context.Context, any) (json.RawMessage, error)
	updateFunc func(*apiclient.Client, context.Context, string, any) (json.RawMessage, error)
)

// resource describes a backend collection exposed as a command group. Nil
// operations are not offered.
type resource struct {
	use    string
	short  string
	list   listFunc
	get    idFunc
	create createFunc
	update updateFunc
	remove idFunc
}

func (r resource) command() *cobra.Command {
	group := &cobra.Command{Use: r.use, Short: r.short}

	if r.list != nil {
		var params map[string]string
		list := &cobra.Command{
			Use:   "list",
			Short: "List " + r.use,
			Args:  cobra.NoArgs,
			RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
				return r.list(c, cmd.Context(), toParams(params))
			}),
		}
		list.Flags().StringToStringVar(&params, "param", nil, "query parameter key=value (repeatable)")
		group.AddCommand(list)
	}
	if r.get != nil {
		group.AddCommand(&cobra.Command{
			Use:   "get ID",
			Short: "Show one of " + r.use,
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, args []string) (json.RawMessage, error) {
				return r.get(c, cmd.Context(), args[0])
			}),
		})
	}
	if r.create != nil {
		var data string
		create := &cobra.Command{
			Use:   "create --data JSON",
			Short: "Create one of " + r.use,
			Args:  cobra.NoArgs,
			RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
				body, err := dataFlag(data)
				if err != nil {
					return nil, err
				}
				return r.create(c, cmd.Context(), body)
			}),
		}
		create.Flags().StringVar(&data, "data", "", "request body as JSON")
		group.AddCommand(create)
	}
	if r.update != nil {
		var data string
		update := &cobra.Command{
			Use:   "update ID --data JSON",
			Short: "Change one of " + r.use,
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, args []string) (json.RawMessage, error) {
				body, err := dataFlag(data)
				if err != nil {
					return nil, err
				}
				return r.update(c, cmd.Context(), args[0], body)
			}),
		}
		update.Flags().StringVar(&data, "data", "", "request body as JSON")
		group.AddCommand(update)
	}
	if r.remove != nil {
		group.AddCommand(&cobra.Command{
			Use:   "delete ID",
			Short: "Delete one of " + r.use,
			Args:  cobra.ExactArgs(1),
			RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, args []string) (json.RawMessage, error) {
				return r.remove(c, cmd.Context(), args[0])
			}),
		})
	}
	return group
}

// withClient runs fn with the API client and prints its raw result.
func withClient(fn func(*cobra.Command, *apiclient.Client, []string) (json.RawMessage, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		raw, err := fn(cmd, client, args)
		if err != nil {
			return err
		}
		return writeRaw(out(cmd), raw)
	}
}

func noParams(f func(*apiclient.Client, context.Context) (json.RawMessage, error)) listFunc {
	return func(c *apiclient.Client, ctx context.Context, _ apiclient.Params) (json.RawMessage, error) {
		return f(c, ctx)
	}
}

func init() {
	rootCmd.AddCommand(resource{
		use:    "devices",
		short:  "Manage devices",
		list:   (*apiclient.Client).Devices,
		get:    (*apiclient.Client).Device,
		create: (*apiclient.Client).CreateDevice,
		update: (*apiclient.Client).UpdateDevice,
	}.command())

	rootCmd.AddCommand(resource{
		use:    "device-types",
		short:  "Manage device types",
		list:   noParams((*apiclient.Client).DeviceTypes),
		create: (*apiclient.Client).CreateDeviceType,
		update: (*apiclient.Client).UpdateDeviceType,
		remove: (*apiclient.Client).DeleteDeviceType,
	}.command())

	rootCmd.AddCommand(resource{
		use:    "label-types",
		short:  "Manage device label types",
		list:   (*apiclient.Client).LabelTypes,
		create: (*apiclient.Client).CreateLabelType,
		update: (*apiclient.Client).UpdateLabelType,
		remove: (*apiclient.Client).DeleteLabelType,
	}.command())

	rootCmd.AddCommand(resource{
		use:   "applications",
		short: "List applications",
		list:  noParams((*apiclient.Client).Applications),
	}.command())

	topology := resource{
		use:    "topology",
		short:  "Manage application topology connections",
		get:    (*apiclient.Client).ApplicationTopology,
		update: (*apiclient.Client).UpdateTopologyConnection,
		remove: (*apiclient.Client).DeleteTopologyConnection,
	}.command()
	topology.AddCommand(topologyConnectCmd(), topologyLayoutCmd())
	rootCmd.AddCommand(topology)

	mapCmd := resource{
		use:   "map",
		short: "Map layers: devices, intersections and video streams",
		list:  (*apiclient.Client).MapDevices,
	}.command()
	mapCmd.AddCommand(mapIntersectionsCmd(), mapGeoJSONCmd(), mapVideoCmd())
	rootCmd.AddCommand(mapCmd)
}

// topologyConnectCmd creates a connection inside an application, whose ID
// the generic create command has no place for.
func topologyConnectCmd() *cobra.Command {
	var data string
	c := &cobra.Command{
		Use:   "connect APPLICATION_ID --data JSON",
		Short: "Create a topology connection",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, args []string) (json.RawMessage, error) {
			body, err := dataFlag(data)
			if err != nil {
				return nil, err
			}
			return c.CreateTopologyConnection(cmd.Context(), args[0], body)
		}),
	}
	c.Flags().StringVar(&data, "data", "", "connection as JSON")
	return c
}

func topologyLayoutCmd() *cobra.Command {
	layout := &cobra.Command{Use: "layout", Short: "Save or load the topology layout"}

	var data string
	save := &cobra.Command{
		Use:   "save --data JSON",
		Short: "Save the topology layout",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
			body, err := dataFlag(data)
			if err != nil {
				return nil, err
			}
			return c.SaveTopologyLayout(cmd.Context(), body)
		}),
	}
	save.Flags().StringVar(&data, "data", "", "layout as JSON")

	load := &cobra.Command{
		Use:   "load",
		Short: "Load the saved topology layout",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
			return c.LoadTopologyLayout(cmd.Context())
		}),
	}
	layout.AddCommand(save, load)
	return layout
}

func mapIntersectionsCmd() *cobra.Command {
	var params map[string]string
	c := &cobra.Command{
		Use:   "intersections",
		Short: "List signal intersections",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
			return c.Intersections(cmd.Context(), toParams(params))
		}),
	}
	c.Flags().StringToStringVar(&params, "param", nil, "query parameter key=value (repeatable)")
	return c
}

func mapGeoJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geojson",
		Short: "Fetch the base map GeoJSON",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, _ []string) (json.RawMessage, error) {
			return c.ChinaGeoJSON(cmd.Context())
		}),
	}
}

func mapVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "video DEVICE_ID",
		Short: "Show the video stream of a device",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, c *apiclient.Client, args []string) (json.RawMessage, error) {
			return c.DeviceVideoStream(cmd.Context(), args[0])
		}),
	}
}
