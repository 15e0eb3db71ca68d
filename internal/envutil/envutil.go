// Where: internal/envutil/envutil.go
// What: Map configuration keys to host environment variables.
// Why: LEGACYFRONTENDS_<KEY> overrides a setting for one invocation without editing config.yml.
package envutil

import (
	"fmt"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/meta"
	"gopkg.in/yaml.v3"
)

// HostEnvKey returns the environment variable that overrides configKey.
// Example: HostEnvKey("PLATFORM_NAME") returns "LEGACYFRONTENDS_PLATFORM_NAME".
func HostEnvKey(configKey string) string {
	return meta.EnvPrefix + "_" + configKey
}

// Overrides returns the keys whose override variable is set. Values are
// decoded as YAML so numbers and booleans keep their type; an empty
// variable yields an empty string.
func Overrides(keys []string, lookup func(string) (string, bool)) (map[string]any, error) {
	values := map[string]any{}
	for _, key := range keys {
		raw, ok := lookup(HostEnvKey(key))
		if !ok {
			continue
		}
		if strings.TrimSpace(raw) == "" {
			values[key] = ""
			continue
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decode %s: %w", HostEnvKey(key), err)
		}
		values[key] = value
	}
	return values, nil
}
