// Where: internal/plugins/yaml_test.go
// What: Tests for YAML plugin parsing, validation, and registration.
// Why: User manifests must be rejected early when malformed.
package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAMLPlugin = `name: my-theme
version: 0.2.0
config:
  add:
    SECRET_KEY: "{{ randAlphaNum 24 }}"
  defaults:
    COLOR: blue
    REPLICAS: 2
  set:
    PLATFORM_NAME: My platform
patches:
  openedx-dockerfile-pre-assets: |
    RUN echo theme
`

func TestParseYAMLRegistersTiersAndPatches(t *testing.T) {
	p, err := ParseYAML("my-theme.yml", []byte(sampleYAMLPlugin))
	require.NoError(t, err)
	assert.Equal(t, "my-theme", p.Name())
	assert.Equal(t, "0.2.0", p.Version())
	assert.Equal(t, "MY_THEME_", p.Prefix())

	r := hooks.NewRegistry()
	require.NoError(t, NewLoader(r, nil).Load(p))

	assert.Equal(t, []hooks.ConfigEntry{{Key: "MY_THEME_SECRET_KEY", Value: "{{ randAlphaNum 24 }}"}}, r.ConfigUnique.Items())
	assert.Equal(t, []hooks.ConfigEntry{
		{Key: "MY_THEME_COLOR", Value: "blue"},
		{Key: "MY_THEME_REPLICAS", Value: 2},
	}, r.ConfigDefaults.Items())
	assert.Equal(t, []hooks.ConfigEntry{{Key: "PLATFORM_NAME", Value: "My platform"}}, r.ConfigOverrides.Items())
	assert.Equal(t, []string{"RUN echo theme\n"}, r.Patches("openedx-dockerfile-pre-assets"))
}

func TestParseYAMLRejectsInvalidManifests(t *testing.T) {
	cases := map[string]string{
		"missing name":     "version: 1.0.0\n",
		"unknown field":    "name: x\nhooks: []\n",
		"bad config tier":  "name: x\nconfig:\n  unique:\n    A: b\n",
		"bad key":          "name: x\nconfig:\n  defaults:\n    \"bad key\": 1\n",
		"non-string patch": "name: x\npatches:\n  some-patch: [1, 2]\n",
		"upper name":       "name: Theme\n",
	}
	for name, content := range cases {
		_, err := ParseYAML(name+".yml", []byte(content))
		assert.Error(t, err, name)
	}
}

func TestDiscoverYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("name: bravo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: alpha\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yml"), 0o755))

	list, err := DiscoverYAML(dir)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name())
	assert.Equal(t, "bravo", list[1].Name())
}

func TestDiscoverYAMLMissingDir(t *testing.T) {
	list, err := DiscoverYAML(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = DiscoverYAML("")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDiscoverYAMLInvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("version: 1\n"), 0o644))

	_, err := DiscoverYAML(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}
