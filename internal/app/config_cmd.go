// Where: internal/app/config_cmd.go
// What: config save / printvalue / printroot commands.
// Why: Persist user settings, generate unique values, and render the environment.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/config"
	"github.com/poruru-code/legacyfrontends/internal/env"
	"github.com/poruru-code/legacyfrontends/internal/interaction"
	"github.com/poruru-code/legacyfrontends/internal/ui"
	"gopkg.in/yaml.v3"
)

var errUnknownConfigKey = errors.New("unknown config key")

type (
	ConfigCmd struct {
		Save       ConfigSaveCmd       `cmd:"" help:"Save settings and render the environment"`
		PrintValue ConfigPrintValueCmd `cmd:"" name:"printvalue" help:"Print one configuration value"`
		PrintRoot  ConfigPrintRootCmd  `cmd:"" name:"printroot" help:"Print the project root"`
	}
	ConfigSaveCmd struct {
		Set         []string `short:"s" sep:"none" placeholder:"KEY=VALUE" help:"Set a configuration value"`
		Unset       []string `short:"U" sep:"none" placeholder:"KEY" help:"Remove a configuration value"`
		Interactive bool     `short:"i" help:"Review the value of every plugin default"`
	}
	ConfigPrintValueCmd struct {
		Key string `arg:"" help:"Configuration key"`
	}
	ConfigPrintRootCmd struct{}
)

func runConfigSave(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	user, err := config.LoadUser(cli.Root)
	if err != nil {
		return exitWithError(console, err)
	}
	for _, arg := range cli.Config.Save.Set {
		key, value, err := config.ParseSetting(arg)
		if err != nil {
			return exitWithError(console, err)
		}
		user[key] = value
	}
	for _, key := range cli.Config.Save.Unset {
		delete(user, strings.TrimSpace(key))
	}

	s, err := openSessionWith(cli, deps, user)
	if err != nil {
		return exitWithError(console, err)
	}
	if cli.Config.Save.Interactive {
		if err := reviewDefaults(s, cli, deps); err != nil {
			return exitWithError(console, err)
		}
	}
	renderer, result, err := s.renderer(cli)
	if err != nil {
		return exitWithError(console, err)
	}
	for _, key := range slices.Sorted(maps.Keys(result.Generated)) {
		s.logger.Info("generated unique value", "key", key)
	}
	maps.Copy(user, result.Generated)
	if err := config.SaveUser(cli.Root, user); err != nil {
		return exitWithError(console, err)
	}
	console.Success("Configuration saved to " + config.Path(cli.Root))

	n, err := s.saveEnv(renderer)
	if err != nil {
		return exitWithError(console, err)
	}
	console.Success(fmt.Sprintf("Environment generated in %s (%d files)", env.Dir(cli.Root), n))
	return 0
}

func runConfigPrintValue(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	result, err := s.resolve(cli)
	if err != nil {
		return exitWithError(console, err)
	}
	key := cli.Config.PrintValue.Key
	value, ok := result.Values[key]
	if !ok {
		return exitWithError(console, fmt.Errorf("%w: %s", errUnknownConfigKey, key))
	}
	text, err := formatValue(value)
	if err != nil {
		return exitWithError(console, err)
	}
	console.Raw(text)
	return 0
}

func runConfigPrintRoot(_ context.Context, cli CLI, _ Dependencies, console *ui.Console) int {
	console.Raw(cli.Root)
	return 0
}

// reviewDefaults prompts for every scalar default and stores changed
// answers in the session's user configuration.
func reviewDefaults(s *session, cli CLI, deps Dependencies) error {
	if !deps.IsInteractive() {
		return interaction.ErrNotInteractive
	}
	result, err := s.resolve(cli)
	if err != nil {
		return err
	}
	var keys []string
	for _, entry := range s.registry.ConfigDefaults.Items() {
		keys = append(keys, entry.Key)
	}
	slices.Sort(keys)
	for _, key := range slices.Compact(keys) {
		current := result.Values[key]
		switch current.(type) {
		case map[string]any, []any:
			continue
		}
		text, err := formatValue(current)
		if err != nil {
			return err
		}
		answer, err := deps.Prompter.Input(key, text)
		if err != nil {
			return err
		}
		if answer == text {
			continue
		}
		_, value, err := config.ParseSetting(key + "=" + answer)
		if err != nil {
			return err
		}
		s.user[key] = value
	}
	return nil
}

// formatValue prints strings verbatim and everything else as YAML.
func formatValue(value any) (string, error) {
	if text, ok := value.(string); ok {
		return text, nil
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
