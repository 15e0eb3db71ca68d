// Where: internal/envutil/envutil_test.go
// What: Tests for environment variable overrides.
// Why: Overrides must keep YAML types and ignore unset variables.
package envutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostEnvKey(t *testing.T) {
	assert.Equal(t, "LEGACYFRONTENDS_PLATFORM_NAME", HostEnvKey("PLATFORM_NAME"))
}

func TestOverrides(t *testing.T) {
	env := map[string]string{
		"LEGACYFRONTENDS_WORKERS":  "4",
		"LEGACYFRONTENDS_DEBUG":    "true",
		"LEGACYFRONTENDS_NAME":     "Demo",
		"LEGACYFRONTENDS_EMPTY":    "",
		"LEGACYFRONTENDS_UNLISTED": "x",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	values, err := Overrides([]string{"WORKERS", "DEBUG", "NAME", "EMPTY", "ABSENT"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"WORKERS": 4, "DEBUG": true, "NAME": "Demo", "EMPTY": ""}, values)
}

func TestOverridesInvalidYAML(t *testing.T) {
	lookup := func(string) (string, bool) { return "[unclosed", true }
	_, err := Overrides([]string{"LIST"}, lookup)
	require.ErrorContains(t, err, "LEGACYFRONTENDS_LIST")
}
