// Where: internal/hooks/registry.go
// What: The set of host extension points populated by plugins.
// Why: Pass one explicit registry object through plugin loading instead of globals.
package hooks

import (
	"regexp"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

var configKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Registry holds one filter per host extension point.
type Registry struct {
	scope   *scope
	filters []extensionPoint

	EnvPatches      *Filter[Patch]
	ConfigDefaults  *Filter[ConfigEntry]
	ConfigUnique    *Filter[ConfigEntry]
	ConfigOverrides *Filter[ConfigEntry]
	InitTasks       *Filter[InitTask]
	ImagesBuild     *Filter[BuildImage]
	ImagesPull      *Filter[ImageRef]
	ImagesPush      *Filter[ImageRef]
	TemplateRoots   *Filter[TemplateRoot]
	TemplateTargets *Filter[TemplateTarget]
	DoCommands      *Filter[Job]
	CLICommands     *Filter[Command]
}

type extensionPoint interface {
	Name() string
	Len() int
	clear(context string) int
	freeze()
}

// FilterStat reports the size of one extension point.
type FilterStat struct {
	Name  string
	Items int
}

// NewRegistry creates a registry with empty extension points.
func NewRegistry() *Registry {
	v := newValidator()
	r := &Registry{scope: &scope{}}

	r.EnvPatches = addFilter[Patch](r, "env:patches", v)
	r.ConfigDefaults = addFilter[ConfigEntry](r, "config:defaults", v)
	r.ConfigUnique = addFilter[ConfigEntry](r, "config:unique", v)
	r.ConfigOverrides = addFilter[ConfigEntry](r, "config:overrides", v)
	r.InitTasks = addFilter[InitTask](r, "cli:do:init-tasks", v)
	r.ImagesBuild = addFilter[BuildImage](r, "images:build", v)
	r.ImagesPull = addFilter[ImageRef](r, "images:pull", v)
	r.ImagesPush = addFilter[ImageRef](r, "images:push", v)
	r.TemplateRoots = addFilter[TemplateRoot](r, "env:templates:roots", v)
	r.TemplateTargets = addFilter[TemplateTarget](r, "env:templates:targets", v)
	r.DoCommands = addFilter[Job](r, "cli:do:commands", v)
	r.CLICommands = addFilter[Command](r, "cli:commands", v)
	return r
}

func addFilter[T any](r *Registry, name string, v *validator.Validate) *Filter[T] {
	f := NewFilter(name, func(item T) error { return v.Struct(item) })
	f.scope = r.scope
	r.filters = append(r.filters, f)
	return f
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("configkey", func(fl validator.FieldLevel) bool {
		return configKeyPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		root := sl.Current().Interface().(TemplateRoot)
		if root.FS == nil {
			sl.ReportError(root.FS, "FS", "FS", "required", "")
		}
	}, TemplateRoot{})
	return v
}

// Within runs fn with context as the active context: every item added
// during fn without an explicit WithContext is tagged with it.
func (r *Registry) Within(context string, fn func() error) error {
	r.scope.push(context)
	defer r.scope.pop()
	return fn()
}

// Clear removes every item tagged with context and returns how many were
// removed.
func (r *Registry) Clear(context string) int {
	removed := 0
	for _, f := range r.filters {
		removed += f.clear(context)
	}
	return removed
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	for _, f := range r.filters {
		f.freeze()
	}
}

// Stats lists every extension point and its size, in declaration order.
func (r *Registry) Stats() []FilterStat {
	stats := make([]FilterStat, 0, len(r.filters))
	for _, f := range r.filters {
		stats = append(stats, FilterStat{Name: f.Name(), Items: f.Len()})
	}
	return stats
}

// Patches returns the payloads registered at one insertion point, in
// priority order.
func (r *Registry) Patches(name string) []string {
	var contents []string
	for _, p := range r.EnvPatches.Items() {
		if p.Name == name {
			contents = append(contents, p.Content)
		}
	}
	return contents
}

// PatchNames returns the sorted set of insertion points with at least one patch.
func (r *Registry) PatchNames() []string {
	var names []string
	for _, p := range r.EnvPatches.Items() {
		if !slices.Contains(names, p.Name) {
			names = append(names, p.Name)
		}
	}
	slices.Sort(names)
	return names
}

type scope struct {
	mu    sync.Mutex
	stack []string
}

func (s *scope) push(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = append(s.stack, name)
}

func (s *scope) pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *scope) active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}
