// Where: internal/env/renderer.go
// What: Render plugin templates, patches, and templated strings.
// Why: Consume template roots and patches the way the host environment build does.
package env

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru-code/legacyfrontends/internal/hooks"
)

// ErrTemplateNotFound is returned when no template root contains a path.
var ErrTemplateNotFound = errors.New("template not found")

// Renderer renders templates against a resolved configuration.
type Renderer struct {
	roots   []hooks.TemplateRoot
	values  map[string]any
	patches func(name string) []string
	funcs   template.FuncMap
}

// NewRenderer builds a renderer over the registry's template roots and
// patches. values is the resolved configuration.
func NewRenderer(r *hooks.Registry, values map[string]any) *Renderer {
	renderer := &Renderer{
		roots:   r.TemplateRoots.Items(),
		values:  values,
		patches: r.Patches,
	}
	funcs := sprig.TxtFuncMap()
	funcs["patch"] = renderer.patch
	renderer.funcs = funcs
	return renderer
}

// RenderString renders text as a template named name.
func (r *Renderer) RenderString(name, text string) (string, error) {
	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.values); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderTemplate renders a template path looked up in the template roots,
// first root first.
func (r *Renderer) RenderTemplate(path string) (string, error) {
	content, err := r.read(path)
	if err != nil {
		return "", err
	}
	return r.RenderString(path, string(content))
}

// Patch renders the payloads of one insertion point and joins them with
// newlines, in priority order.
func (r *Renderer) Patch(name string) (string, error) {
	return r.patch(name)
}

func (r *Renderer) patch(name string) (string, error) {
	contents := r.patches(name)
	rendered := make([]string, 0, len(contents))
	for i, content := range contents {
		text, err := r.RenderString(fmt.Sprintf("patch:%s:%d", name, i), content)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, "\n"), nil
}

func (r *Renderer) read(path string) ([]byte, error) {
	for _, root := range r.roots {
		content, err := fs.ReadFile(root.FS, path)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read template %s from %s: %w", path, root.Name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
}
