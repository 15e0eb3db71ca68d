// Where: internal/plugins/loader.go
// What: Load plugins into a registry under their own context.
// Why: Attribute every registered item to its plugin and skip double loads.
package plugins

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
)

// ContextName returns the registry context used for a plugin's items.
func ContextName(plugin string) string {
	return "plugin:" + plugin
}

// ConfigPrefix returns the key prefix a plugin's own settings carry.
func ConfigPrefix(plugin string) string {
	return strings.ToUpper(strings.ReplaceAll(plugin, "-", "_")) + "_"
}

// Loader loads plugins into one registry.
type Loader struct {
	registry *hooks.Registry
	logger   *slog.Logger
	loaded   map[string]struct{}
	order    []string
}

// NewLoader creates a loader for registry. A nil logger discards output.
func NewLoader(registry *hooks.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		registry: registry,
		logger:   logger,
		loaded:   map[string]struct{}{},
	}
}

// Load runs the plugin's registration. Loading an already loaded plugin is
// a no-op. A failing plugin aborts loading; items it registered before the
// failure stay in the registry.
func (l *Loader) Load(p Plugin) error {
	name := p.Name()
	if _, ok := l.loaded[name]; ok {
		l.logger.Debug("plugin already loaded", "plugin", name)
		return nil
	}
	if err := l.registry.Within(ContextName(name), func() error {
		return p.Load(l.registry)
	}); err != nil {
		return fmt.Errorf("load plugin %s: %w", name, err)
	}
	l.loaded[name] = struct{}{}
	l.order = append(l.order, name)
	l.logger.Debug("plugin loaded", "plugin", name, "version", p.Version())
	return nil
}

// LoadAll loads plugins in order and stops at the first failure.
func (l *Loader) LoadAll(list []Plugin) error {
	for _, p := range list {
		if err := l.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// Unload removes everything the plugin registered.
func (l *Loader) Unload(name string) int {
	if _, ok := l.loaded[name]; !ok {
		return 0
	}
	delete(l.loaded, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	removed := l.registry.Clear(ContextName(name))
	l.logger.Debug("plugin unloaded", "plugin", name, "items", removed)
	return removed
}

// Loaded returns the names of loaded plugins in load order.
func (l *Loader) Loaded() []string {
	return append([]string(nil), l.order...)
}
