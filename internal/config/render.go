// Where: internal/config/render.go
// What: Render templated configuration values.
// Why: Settings may reference other settings and sprig helpers such as randAlphaNum.
package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// maxRenderPasses bounds chains of values that reference templated values.
const maxRenderPasses = 8

func renderValue(key string, value any, data map[string]any) (any, error) {
	text, ok := value.(string)
	if !ok || !strings.Contains(text, "{{") {
		return value, nil
	}
	tmpl, err := template.New(key).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse value of %s: %w", key, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render value of %s: %w", key, err)
	}
	return buf.String(), nil
}

// renderAll renders templated values in place until they stop changing.
func renderAll(values map[string]any) error {
	keys := slices.Sorted(maps.Keys(values))
	for pass := 0; pass < maxRenderPasses; pass++ {
		changed := false
		for _, key := range keys {
			text, ok := values[key].(string)
			if !ok || !strings.Contains(text, "{{") {
				continue
			}
			rendered, err := renderValue(key, text, values)
			if err != nil {
				return err
			}
			if rendered != text {
				values[key] = rendered
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	return nil
}
