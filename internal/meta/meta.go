// Where: internal/meta/meta.go
// What: Plugin and host identity constants.
// Why: Keep names, prefixes, and directory layout in one place.
package meta

const (
	// Plugin Identity
	PluginName   = "legacyfrontends"
	ConfigPrefix = "LEGACYFRONTENDS_"

	// Host Identity
	AppName   = "legacyfrontends"
	EnvPrefix = "LEGACYFRONTENDS"

	// Directory Layout
	ConfigFile     = "config.yml"
	EnvDir         = "env"
	PluginsDirName = "plugins"
	TemplatesDir   = "templates"

	// Configuration Keys
	PluginsKey = "PLUGINS"
)
