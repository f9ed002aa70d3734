package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/nfrund/fleetconsole/internal/app"
	"github.com/nfrund/fleetconsole/internal/config"
	"github.com/nfrund/fleetconsole/internal/logging"
	"github.com/nfrund/fleetconsole/internal/server"
)

// version can be set at build time.
// Example: go build -ldflags "-X 'main.version=1.4.0'"
var version string

func main() {
	if version != "" {
		app.Version = version
	}

	cfg, err := config.New()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	injector := app.New(cfg, afero.NewOsFs())
	defer injector.Shutdown()

	deps, err := app.ResolveDependencies(injector)
	if err != nil {
		slog.Error("Failed to resolve dependencies", "error", err)
		os.Exit(1)
	}

	s, err := server.New(deps)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	if err := s.Start(ctx, cfg.ServerAddr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
