// Package app wires the console services together with a samber/do injector.
// The CLI and the server share the same providers; the CLI additionally
// registers a file-backed session with WithLocalSession.
package app

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/config"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/rendering"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/storage"
	"github.com/nfrund/fleetconsole/internal/websocket"
)

// Version is stamped at build time.
var Version = "dev"

// New returns an injector providing the services shared by every consumer.
func New(cfg *config.Config, fsys afero.Fs) *do.RootScope {
	i := do.New()
	do.ProvideValue(i, cfg)
	do.ProvideValue(i, fsys)
	do.Provide(i, provideBus)
	do.Provide(i, provideRoutes)
	do.Provide(i, provideAPIClient)
	do.Provide(i, func(do.Injector) (*rendering.UniversalRenderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	do.Provide(i, func(do.Injector) (*websocket.SessionStream, error) {
		return websocket.NewSessionStream(), nil
	})
	return i
}

// WithLocalSession registers the session persisted under the state
// directory. The API client then authenticates with it.
func WithLocalSession(i do.Injector) {
	do.Provide(i, provideFileStorage)
	do.Provide(i, provideHistory)
	do.Provide(i, provideSession)
	do.Provide(i, func(i do.Injector) (apiclient.TokenSource, error) {
		s, err := do.Invoke[*session.Session](i)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func provideBus(do.Injector) (*pubsub.WatermillBridge, error) {
	return pubsub.NewWatermillBridge(), nil
}

func provideRoutes(i do.Injector) (*router.Table, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return router.ForApp(cfg.App)
}

func provideAPIClient(i do.Injector) (*apiclient.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)

	// Without a local session the caller supplies tokens per request.
	var tokens apiclient.TokenSource
	if ts, err := do.Invoke[apiclient.TokenSource](i); err == nil {
		tokens = ts
	}
	client, err := apiclient.New(cfg.APIBaseURL, tokens,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithUserAgent("fleetconsole/"+Version),
	)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return client, nil
}

func provideFileStorage(i do.Injector) (*storage.FileStorage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	fsys := do.MustInvoke[afero.Fs](i)
	return storage.NewFileStorage(fsys, cfg.StateDir), nil
}

func provideHistory(i do.Injector) (*router.History, error) {
	table, err := do.Invoke[*router.Table](i)
	if err != nil {
		return nil, err
	}
	return router.NewHistory(table, "home"), nil
}

func provideSession(i do.Injector) (*session.Session, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store, err := do.Invoke[*storage.FileStorage](i)
	if err != nil {
		return nil, err
	}
	history, err := do.Invoke[*router.History](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return session.Restore(context.Background(), store,
		session.WithNavigator(history),
		session.WithPublisher(bus),
		session.WithKey(cfg.App),
	), nil
}
