// Where: internal/config/store.go
// What: Load and save the user configuration file.
// Why: Keep <root>/config.yml the single persisted source of user settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/meta"
	"gopkg.in/yaml.v3"
)

// Path returns the path of the user configuration file under root.
func Path(root string) string {
	return filepath.Join(root, meta.ConfigFile)
}

// LoadUser reads the user configuration. A missing file yields an empty map.
func LoadUser(root string) (map[string]any, error) {
	payload, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read user config: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(payload, &values); err != nil {
		return nil, fmt.Errorf("decode user config: %w", err)
	}
	return values, nil
}

// SaveUser writes the user configuration with sorted keys.
func SaveUser(root string, values map[string]any) error {
	payload, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode user config: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create config root: %w", err)
	}
	if err := os.WriteFile(Path(root), payload, 0o600); err != nil {
		return fmt.Errorf("write user config: %w", err)
	}
	return nil
}

// ParseSetting splits a KEY=VALUE argument. VALUE is decoded as YAML so
// numbers, booleans, and lists keep their type.
func ParseSetting(arg string) (string, any, error) {
	key, raw, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid setting %q: expected KEY=VALUE", arg)
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("decode value of %s: %w", key, err)
	}
	if value == nil && strings.TrimSpace(raw) == "" {
		value = ""
	}
	return key, value, nil
}

// EnabledPlugins returns the plugin names listed under PLUGINS.
func EnabledPlugins(values map[string]any) []string {
	raw, ok := values[meta.PluginsKey].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SetPluginEnabled adds or removes name from PLUGINS, keeping it sorted.
func SetPluginEnabled(values map[string]any, name string, enabled bool) {
	names := EnabledPlugins(values)
	names = slices.DeleteFunc(names, func(n string) bool { return n == name })
	if enabled {
		names = append(names, name)
	}
	slices.Sort(names)

	list := make([]any, 0, len(names))
	for _, n := range names {
		list = append(list, n)
	}
	values[meta.PluginsKey] = list
}
