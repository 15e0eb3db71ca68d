// Where: cmd/legacyfrontends/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/poruru-code/legacyfrontends/internal/app"
	"github.com/poruru-code/legacyfrontends/internal/images"
	"github.com/poruru-code/legacyfrontends/internal/plugins"

	// Compiled-in plugins register themselves from init.
	_ "github.com/poruru-code/legacyfrontends/internal/plugins/legacyfrontends"
)

var (
	newDockerClient  = images.NewDockerClient
	installedPlugins = plugins.Installed
)

// buildDependencies constructs the runtime dependencies of the CLI. The
// Docker client is created on first use by an image command.
func buildDependencies() app.Dependencies {
	return app.Dependencies{
		Out:             os.Stdout,
		ErrOut:          os.Stderr,
		NewDockerClient: func() (images.DockerClient, error) { return newDockerClient() },
		Plugins:         func() []plugins.Plugin { return installedPlugins() },
	}
}
