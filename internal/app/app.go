// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/poruru-code/legacyfrontends/internal/images"
	"github.com/poruru-code/legacyfrontends/internal/interaction"
	"github.com/poruru-code/legacyfrontends/internal/meta"
	"github.com/poruru-code/legacyfrontends/internal/plugins"
	"github.com/poruru-code/legacyfrontends/internal/ui"
	"github.com/poruru-code/legacyfrontends/internal/version"
)

// Dependencies holds the injected collaborators of a CLI invocation.
type Dependencies struct {
	Out    io.Writer
	ErrOut io.Writer
	// NewDockerClient is called only by image commands that reach the daemon.
	NewDockerClient func() (images.DockerClient, error)
	// Plugins lists the compiled-in plugins. Defaults to plugins.Installed.
	Plugins func() []plugins.Plugin
	// Prompter and IsInteractive back the interactive commands.
	Prompter      interaction.Prompter
	IsInteractive func() bool
	// LookupEnv reads LEGACYFRONTENDS_<KEY> overrides. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Root        string `short:"r" type:"path" default:"." env:"LEGACYFRONTENDS_ROOT" help:"Project root"`
	PluginsRoot string `name:"plugins-root" type:"path" env:"LEGACYFRONTENDS_PLUGINS_ROOT" help:"Directory of YAML plugins (default: <root>/plugins)"`
	LogLevel    string `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Log level"`
	LogFormat   string `name:"log-format" enum:"text,json" default:"text" help:"Log format"`
	OnCollision string `name:"on-collision" enum:"warn,fail" default:"warn" help:"Behaviour when a config key is registered twice"`

	Plugins    PluginsCmd    `cmd:"" help:"Manage plugins"`
	Config     ConfigCmd     `cmd:"" help:"Configure the project"`
	Patches    PatchesCmd    `cmd:"" help:"Inspect template patches"`
	Images     ImagesCmd     `cmd:"" help:"Build, pull, and push images"`
	Do         DoCmd         `cmd:"" help:"Run init tasks and jobs"`
	Run        RunCmd        `cmd:"" help:"Run a plugin command"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completion script"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution. It returns 0 on
// success and 1 on error.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Plugins == nil {
		deps.Plugins = plugins.Installed
	}
	if deps.NewDockerClient == nil {
		deps.NewDockerClient = images.NewDockerClient
	}
	if deps.Prompter == nil {
		deps.Prompter = interaction.HuhPrompter{}
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.IsInteractive == nil {
		deps.IsInteractive = func() bool { return interaction.IsTerminal(os.Stdin) }
	}
	console := ui.New(deps.Out)

	if len(args) == 0 {
		return runNoArgs(console)
	}

	cli := CLI{}
	exited := false
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Build and configure legacy frontend environments."),
		kong.Writers(deps.Out, deps.ErrOut),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return exitWithError(console, err)
	}
	kctx, err := parser.Parse(args)
	if exited {
		// --help was printed.
		return 0
	}
	if err != nil {
		return exitWithError(console, err)
	}

	command := commandPath(kctx.Command())
	if exitCode, handled := dispatchCommand(command, cli, deps, console); handled {
		return exitCode
	}

	console.Warn("unknown command")
	return 1
}

type commandHandler func(context.Context, CLI, Dependencies, *ui.Console) int

func dispatchCommand(command string, cli CLI, deps Dependencies, console *ui.Console) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"plugins list":      runPluginsList,
		"plugins enable":    runPluginsEnable,
		"plugins disable":   runPluginsDisable,
		"config save":       runConfigSave,
		"config printvalue": runConfigPrintValue,
		"config printroot":  runConfigPrintRoot,
		"patches list":      runPatchesList,
		"patches show":      runPatchesShow,
		"images build":      runImagesBuild,
		"images pull":       runImagesPull,
		"images push":       runImagesPush,
		"do init":           runDoInit,
		"do job":            runDoJob,
		"run":               runPluginCommand,
		"completion bash":   runCompletionBash,
		"completion zsh":    runCompletionZsh,
		"completion fish":   runCompletionFish,
		"version":           runVersion,
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(context.Background(), cli, deps, console), true
	}
	return 1, false
}

// commandPath drops positional placeholders such as "<names>" from a
// kong command string.
func commandPath(command string) string {
	fields := strings.Fields(command)
	kept := fields[:0]
	for _, field := range fields {
		if strings.HasPrefix(field, "<") {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

func runVersion(_ context.Context, _ CLI, _ Dependencies, console *ui.Console) int {
	console.Info(version.GetVersion())
	return 0
}

// runNoArgs prints a short usage hint.
func runNoArgs(console *ui.Console) int {
	console.Info("Usage:")
	console.Info("  " + meta.AppName + " config save [--set KEY=VALUE]")
	console.Info("  " + meta.AppName + " plugins enable NAME")
	console.Info("")
	console.Info("Try: " + meta.AppName + " --help")
	return 0
}

func exitWithError(console *ui.Console, err error) int {
	console.Error(err)
	return 1
}
