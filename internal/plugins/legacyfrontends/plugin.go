// Where: internal/plugins/legacyfrontends/plugin.go
// What: Registration of the legacyfrontends plugin into the host registry.
// Why: Contribute patches, settings, images, and templates at load time.
package legacyfrontends

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/poruru-code/legacyfrontends/internal/meta"
	"github.com/poruru-code/legacyfrontends/internal/plugins"
	"github.com/poruru-code/legacyfrontends/internal/version"
)

//go:embed templates
var packagedFS embed.FS

// InitTaskSource names a service and the template path, relative to the
// templates directory, of the script it runs during the init job.
type InitTaskSource struct {
	Service string
	Path    []string
}

// initTasks declares the init job scripts. To add one, create
// templates/legacyfrontends/tasks/<service>/init.sh and list it here:
//
//	{Service: "lms", Path: []string{"legacyfrontends", "tasks", "lms", "init.sh"}},
var initTasks = []InitTaskSource{}

// Images built by "images build". Each context is relative to the
// environment directory; the Dockerfile belongs under
// templates/legacyfrontends/build/<image>:
//
//	{
//		Name:    "myimage",
//		Context: []string{"plugins", "legacyfrontends", "build", "myimage"},
//		Tag:     "docker.io/myimage:{{ .LEGACYFRONTENDS_VERSION }}",
//	},
var buildImages = []hooks.BuildImage{}

// Images handled by "images pull" and "images push":
//
//	{Name: "myimage", Tag: "docker.io/myimage:{{ .LEGACYFRONTENDS_VERSION }}"},
var (
	pullImages = []hooks.ImageRef{}
	pushImages = []hooks.ImageRef{}
)

// Settings with a usable default. Prefix names with LEGACYFRONTENDS_.
var configDefaults = []hooks.ConfigEntry{
	{Key: meta.ConfigPrefix + "VERSION", Value: version.Release},
}

// Settings without a reasonable default for every install, such as
// secrets, generated once per install:
//
//	{Key: "LEGACYFRONTENDS_SECRET_KEY", Value: "{{ randAlphaNum 24 }}"},
var configUnique = []hooks.ConfigEntry{}

// Overrides of host or other plugin settings:
//
//	{Key: "PLATFORM_NAME", Value: "My platform"},
var configOverrides = []hooks.ConfigEntry{}

// templateTargets render <source> into env/<destination>/<source>.
var templateTargets = []hooks.TemplateTarget{
	{Source: "legacyfrontends/build", Destination: "plugins"},
	{Source: "legacyfrontends/apps", Destination: "plugins"},
}

// Plugin is the legacyfrontends plugin.
type Plugin struct {
	templates fs.FS
	tasks     []InitTaskSource
}

func init() {
	plugins.Register(New())
}

// New returns the plugin backed by its packaged templates.
func New() *Plugin {
	templates, err := fs.Sub(packagedFS, meta.TemplatesDir)
	if err != nil {
		panic(fmt.Sprintf("legacyfrontends: packaged templates: %v", err))
	}
	return &Plugin{templates: templates, tasks: initTasks}
}

// Name implements plugins.Plugin.
func (p *Plugin) Name() string { return meta.PluginName }

// Version implements plugins.Plugin.
func (p *Plugin) Version() string { return version.Release }

// Load implements plugins.Plugin. Every step either registers its items or
// returns; nothing is retried or rolled back.
func (p *Plugin) Load(r *hooks.Registry) error {
	if err := r.EnvPatches.AddItem(
		hooks.Patch{Name: PreAssetsPatch, Content: BuildProductionAssets},
		hooks.WithPriority(productionAssetsPriority),
	); err != nil {
		return err
	}
	if err := r.EnvPatches.AddItem(
		hooks.Patch{Name: PostPythonRequirementsPatch, Content: BuildDevelopmentAssets},
		hooks.WithPriority(developmentAssetsPriority),
	); err != nil {
		return err
	}

	if err := r.ConfigDefaults.AddItems(configDefaults); err != nil {
		return err
	}
	if err := r.ConfigUnique.AddItems(configUnique); err != nil {
		return err
	}
	if err := r.ConfigOverrides.AddItems(configOverrides); err != nil {
		return err
	}

	tasks, err := p.loadInitTasks()
	if err != nil {
		return err
	}
	if err := r.InitTasks.AddItems(tasks); err != nil {
		return err
	}

	if err := r.ImagesBuild.AddItems(buildImages); err != nil {
		return err
	}
	if err := r.ImagesPull.AddItems(pullImages); err != nil {
		return err
	}
	if err := r.ImagesPush.AddItems(pushImages); err != nil {
		return err
	}

	if err := r.TemplateRoots.AddItem(hooks.TemplateRoot{Name: meta.PluginName, FS: p.templates}); err != nil {
		return err
	}
	return r.TemplateTargets.AddItems(templateTargets)
}

// loadInitTasks reads every declared task script eagerly.
func (p *Plugin) loadInitTasks() ([]hooks.InitTask, error) {
	tasks := make([]hooks.InitTask, 0, len(p.tasks))
	for _, src := range p.tasks {
		name := path.Join(src.Path...)
		script, err := fs.ReadFile(p.templates, name)
		if err != nil {
			return nil, fmt.Errorf("read init task %s for %s: %w", name, src.Service, err)
		}
		tasks = append(tasks, hooks.InitTask{Service: src.Service, Script: string(script)})
	}
	return tasks, nil
}
