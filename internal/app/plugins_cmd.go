// Where: internal/app/plugins_cmd.go
// What: plugins list / enable / disable commands.
// Why: Plugins are activated by listing them under PLUGINS in config.yml.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/config"
	"github.com/poruru-code/legacyfrontends/internal/interaction"
	"github.com/poruru-code/legacyfrontends/internal/plugins"
	"github.com/poruru-code/legacyfrontends/internal/ui"
)

type (
	PluginsCmd struct {
		List    PluginsListCmd    `cmd:"" help:"List installed plugins"`
		Enable  PluginsEnableCmd  `cmd:"" help:"Enable plugins"`
		Disable PluginsDisableCmd `cmd:"" help:"Disable plugins"`
	}
	PluginsListCmd   struct{}
	PluginsEnableCmd struct {
		Names []string `arg:"" optional:"" help:"Plugin names (prompted when omitted)"`
	}
	PluginsDisableCmd struct {
		Names []string `arg:"" help:"Plugin names"`
	}
)

func runPluginsList(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	loaded := s.loader.Loaded()

	console.Header("🔌", "Plugins:")
	list := slices.Clone(s.candidates)
	slices.SortFunc(list, func(a, b plugins.Plugin) int { return strings.Compare(a.Name(), b.Name()) })
	for _, p := range list {
		status := "disabled"
		if slices.Contains(loaded, p.Name()) {
			status = "enabled"
		}
		console.Item(p.Name(), fmt.Sprintf("%s (%s)", p.Version(), status))
	}
	return 0
}

func runPluginsEnable(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	return setPlugins(cli, deps, console, cli.Plugins.Enable.Names, true)
}

func runPluginsDisable(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	return setPlugins(cli, deps, console, cli.Plugins.Disable.Names, false)
}

func setPlugins(cli CLI, deps Dependencies, console *ui.Console, names []string, enabled bool) int {
	user, err := config.LoadUser(cli.Root)
	if err != nil {
		return exitWithError(console, err)
	}
	logger := newLogger(cli.LogLevel, cli.LogFormat, deps.ErrOut)
	candidates, err := pluginCandidates(cli, deps, logger)
	if err != nil {
		return exitWithError(console, err)
	}

	if len(names) == 0 && enabled {
		name, err := promptPlugin(deps, user, candidates)
		if err != nil {
			return exitWithError(console, err)
		}
		names = []string{name}
	}
	for _, name := range names {
		if enabled {
			if _, err := plugins.Lookup(candidates, name); err != nil {
				return exitWithError(console, err)
			}
		}
		config.SetPluginEnabled(user, name, enabled)
	}
	if err := config.SaveUser(cli.Root, user); err != nil {
		return exitWithError(console, err)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	for _, name := range names {
		console.Success(fmt.Sprintf("Plugin %s %s", name, verb))
	}
	console.Info("Regenerate the environment with: config save")
	return 0
}

// promptPlugin asks which disabled plugin to enable.
func promptPlugin(deps Dependencies, user map[string]any, candidates []plugins.Plugin) (string, error) {
	if !deps.IsInteractive() {
		return "", fmt.Errorf("no plugin name given: %w", interaction.ErrNotInteractive)
	}
	enabled := config.EnabledPlugins(user)
	var options []string
	for _, p := range candidates {
		if !slices.Contains(enabled, p.Name()) {
			options = append(options, p.Name())
		}
	}
	if len(options) == 0 {
		return "", errors.New("every installed plugin is already enabled")
	}
	slices.Sort(options)
	return deps.Prompter.Select("Plugin to enable", options)
}
