// Where: internal/app/session.go
// What: Load the user config and enabled plugins into a frozen registry.
// Why: Every command works from the same registry and resolved configuration.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poruru-code/legacyfrontends/internal/config"
	"github.com/poruru-code/legacyfrontends/internal/env"
	"github.com/poruru-code/legacyfrontends/internal/envutil"
	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/poruru-code/legacyfrontends/internal/meta"
	"github.com/poruru-code/legacyfrontends/internal/plugins"
)

type session struct {
	root       string
	logger     *slog.Logger
	user       map[string]any
	candidates []plugins.Plugin
	registry   *hooks.Registry
	loader     *plugins.Loader
	lookupEnv  func(string) (string, bool)
}

// openSession reads config.yml from the project root.
func openSession(cli CLI, deps Dependencies) (*session, error) {
	user, err := config.LoadUser(cli.Root)
	if err != nil {
		return nil, err
	}
	return openSessionWith(cli, deps, user)
}

// openSessionWith loads the plugins enabled in user and freezes the registry.
func openSessionWith(cli CLI, deps Dependencies, user map[string]any) (*session, error) {
	logger := newLogger(cli.LogLevel, cli.LogFormat, deps.ErrOut)
	candidates, err := pluginCandidates(cli, deps, logger)
	if err != nil {
		return nil, err
	}

	registry := hooks.NewRegistry()
	loader := plugins.NewLoader(registry, logger)
	for _, name := range config.EnabledPlugins(user) {
		p, err := plugins.Lookup(candidates, name)
		if err != nil {
			logger.Warn("enabled plugin is not installed", "plugin", name)
			continue
		}
		if err := loader.Load(p); err != nil {
			return nil, err
		}
		checkPluginNamespace(registry, p, logger)
	}
	registry.Freeze()
	for _, stat := range registry.Stats() {
		logger.Debug("extension point", "name", stat.Name, "items", stat.Items)
	}

	return &session{
		root:       cli.Root,
		logger:     logger,
		user:       user,
		candidates: candidates,
		registry:   registry,
		loader:     loader,
		lookupEnv:  deps.LookupEnv,
	}, nil
}

// pluginCandidates lists compiled-in plugins followed by YAML plugins. A
// YAML plugin whose name is already taken is skipped.
func pluginCandidates(cli CLI, deps Dependencies, logger *slog.Logger) ([]plugins.Plugin, error) {
	candidates := append([]plugins.Plugin(nil), deps.Plugins()...)
	yamlPlugins, err := plugins.DiscoverYAML(pluginsRoot(cli))
	if err != nil {
		return nil, err
	}
	for _, p := range yamlPlugins {
		if _, err := plugins.Lookup(candidates, p.Name()); err == nil {
			logger.Warn("yaml plugin shadows an installed plugin", "plugin", p.Name())
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates, nil
}

func pluginsRoot(cli CLI) string {
	if cli.PluginsRoot != "" {
		return cli.PluginsRoot
	}
	return filepath.Join(cli.Root, meta.PluginsDirName)
}

// checkPluginNamespace warns about defaults and unique keys that miss the
// plugin's prefix.
func checkPluginNamespace(r *hooks.Registry, p plugins.Plugin, logger *slog.Logger) {
	prefix := plugins.ConfigPrefix(p.Name())
	ctxName := plugins.ContextName(p.Name())
	var keys []string
	for _, e := range r.ConfigDefaults.ContextItems(ctxName) {
		keys = append(keys, e.Key)
	}
	for _, e := range r.ConfigUnique.ContextItems(ctxName) {
		keys = append(keys, e.Key)
	}
	for _, key := range config.CheckNamespace(keys, prefix) {
		logger.Warn("config key is not namespaced", "plugin", p.Name(), "key", key, "prefix", prefix)
	}
}

// resolve merges the registered tiers with the user configuration.
func (s *session) resolve(cli CLI) (config.Result, error) {
	policy, err := config.ParseCollisionPolicy(cli.OnCollision)
	if err != nil {
		return config.Result{}, err
	}
	layers, err := config.Collect(s.registry, policy, s.logger)
	if err != nil {
		return config.Result{}, err
	}
	layers.Env, err = envutil.Overrides(layers.Keys(s.user), s.lookupEnv)
	if err != nil {
		return config.Result{}, err
	}
	for key := range layers.Env {
		s.logger.Debug("config value taken from environment", "key", key, "variable", envutil.HostEnvKey(key))
	}
	result, err := config.Resolve(s.user, layers)
	if err != nil {
		return config.Result{}, fmt.Errorf("resolve config: %w", err)
	}
	return result, nil
}

// renderer resolves the configuration and returns an env renderer over it.
func (s *session) renderer(cli CLI) (*env.Renderer, config.Result, error) {
	result, err := s.resolve(cli)
	if err != nil {
		return nil, config.Result{}, err
	}
	return env.NewRenderer(s.registry, result.Values), result, nil
}

// saveEnv renders every template target under <root>/env.
func (s *session) saveEnv(renderer *env.Renderer) (int, error) {
	n, err := renderer.Save(s.root, s.registry.TemplateTargets.Items())
	if err != nil {
		return 0, fmt.Errorf("save environment: %w", err)
	}
	s.logger.Info("environment saved", "dir", env.Dir(s.root), "files", n)
	return n, nil
}
