package app

import (
	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/config"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/rendering"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/websocket"
	"github.com/samber/do/v2"
)

// Dependencies holds the core services the console server is built from.
type Dependencies struct {
	Config     *config.Config
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   *rendering.UniversalRenderer
	Routes     *router.Table
	API        *apiclient.Client
	Stream     *websocket.SessionStream
}

// ResolveDependencies invokes every service the server needs.
func ResolveDependencies(i do.Injector) (Dependencies, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return Dependencies{}, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return Dependencies{}, err
	}
	routes, err := do.Invoke[*router.Table](i)
	if err != nil {
		return Dependencies{}, err
	}
	api, err := do.Invoke[*apiclient.Client](i)
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{
		Config:     cfg,
		Publisher:  bus,
		Subscriber: bus,
		Renderer:   do.MustInvoke[*rendering.UniversalRenderer](i),
		Routes:     routes,
		API:        api,
		Stream:     do.MustInvoke[*websocket.SessionStream](i),
	}, nil
}
