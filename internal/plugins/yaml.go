// Where: internal/plugins/yaml.go
// What: Plugins declared as YAML files in the plugins root.
// Why: Users add settings and patches without compiling Go code.
package plugins

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

const yamlSchemaURL = "yaml-plugin.schema.json"

//go:embed schema/yaml-plugin.schema.json
var yamlSchemaSource []byte

var (
	yamlSchemaOnce sync.Once
	yamlSchemaErr  error
	yamlSchema     *jsonschema.Schema
)

// YAMLPlugin is a plugin loaded from a YAML manifest.
type YAMLPlugin struct {
	Path    string `yaml:"-"`
	ID      string `yaml:"name"`
	Release string `yaml:"version"`
	Config  struct {
		Add      map[string]any `yaml:"add"`
		Defaults map[string]any `yaml:"defaults"`
		Set      map[string]any `yaml:"set"`
	} `yaml:"config"`
	Patches map[string]string `yaml:"patches"`
}

// Name implements Plugin.
func (p *YAMLPlugin) Name() string { return p.ID }

// Version implements Plugin.
func (p *YAMLPlugin) Version() string { return p.Release }

// Prefix is prepended to the keys of config.add and config.defaults.
func (p *YAMLPlugin) Prefix() string {
	return ConfigPrefix(p.ID)
}

// Load implements Plugin. config.add and config.defaults are namespaced with
// Prefix; config.set keys are used verbatim because they override other
// plugins' settings.
func (p *YAMLPlugin) Load(r *hooks.Registry) error {
	if err := r.ConfigUnique.AddItems(entries(p.Config.Add, p.Prefix())); err != nil {
		return err
	}
	if err := r.ConfigDefaults.AddItems(entries(p.Config.Defaults, p.Prefix())); err != nil {
		return err
	}
	if err := r.ConfigOverrides.AddItems(entries(p.Config.Set, "")); err != nil {
		return err
	}

	names := sortedKeys(p.Patches)
	patches := make([]hooks.Patch, 0, len(names))
	for _, name := range names {
		patches = append(patches, hooks.Patch{Name: name, Content: p.Patches[name]})
	}
	return r.EnvPatches.AddItems(patches)
}

func entries(values map[string]any, prefix string) []hooks.ConfigEntry {
	keys := sortedKeys(values)
	list := make([]hooks.ConfigEntry, 0, len(keys))
	for _, key := range keys {
		list = append(list, hooks.ConfigEntry{Key: prefix + key, Value: values[key]})
	}
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// ParseYAML validates content against the YAML plugin schema and decodes it.
func ParseYAML(path string, content []byte) (*YAMLPlugin, error) {
	if err := validateYAMLPlugin(content); err != nil {
		return nil, fmt.Errorf("validate plugin %s: %w", path, err)
	}
	var p YAMLPlugin
	if err := yaml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("decode plugin %s: %w", path, err)
	}
	p.Path = path
	return &p, nil
}

// DiscoverYAML loads every *.yml and *.yaml file directly under dir. A
// missing directory yields no plugins.
func DiscoverYAML(dir string) ([]Plugin, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plugins root: %w", err)
	}

	var list []Plugin
	for _, de := range dirEntries {
		ext := filepath.Ext(de.Name())
		if de.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read plugin %s: %w", path, err)
		}
		p, err := ParseYAML(path, content)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	sortByName(list)
	return list, nil
}

func validateYAMLPlugin(content []byte) error {
	sch, err := loadYAMLSchema()
	if err != nil {
		return err
	}

	jsonData, err := sigsyaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return sch.Validate(document)
}

func loadYAMLSchema() (*jsonschema.Schema, error) {
	yamlSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(yamlSchemaURL, bytes.NewReader(yamlSchemaSource)); err != nil {
			yamlSchemaErr = fmt.Errorf("add plugin schema: %w", err)
			return
		}
		yamlSchema, yamlSchemaErr = compiler.Compile(yamlSchemaURL)
	})
	return yamlSchema, yamlSchemaErr
}
