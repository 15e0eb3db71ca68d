// Where: internal/app/app_test.go
// What: End-to-end tests of the CLI commands against a temp project root.
// Why: Commands must wire config, plugins, rendering, and images together.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/poruru-code/legacyfrontends/internal/config"
	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/poruru-code/legacyfrontends/internal/images"
	"github.com/poruru-code/legacyfrontends/internal/interaction"
	"github.com/poruru-code/legacyfrontends/internal/plugins"
	"github.com/poruru-code/legacyfrontends/internal/plugins/legacyfrontends"
	"github.com/poruru-code/legacyfrontends/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	name string
	load func(*hooks.Registry) error
}

func (p stubPlugin) Name() string                 { return p.name }
func (p stubPlugin) Version() string              { return "1.0.0" }
func (p stubPlugin) Load(r *hooks.Registry) error { return p.load(r) }

type recordingDockerClient struct {
	pulls []string
}

func (c *recordingDockerClient) ImageBuild(_ context.Context, _ io.Reader, _ build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	return build.ImageBuildResponse{Body: io.NopCloser(strings.NewReader(""))}, nil
}

func (c *recordingDockerClient) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	c.pulls = append(c.pulls, ref)
	return io.NopCloser(strings.NewReader(`{"status":"Pulled"}` + "\n")), nil
}

func (c *recordingDockerClient) ImagePush(_ context.Context, _ string, _ image.PushOptions) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

// toolsPlugin exercises the extension points the legacyfrontends plugin leaves empty.
func toolsPlugin() stubPlugin {
	return stubPlugin{name: "tools", load: func(r *hooks.Registry) error {
		if err := r.ConfigDefaults.AddItem(hooks.ConfigEntry{Key: "TOOLS_IMAGE", Value: "tools:{{ .TOOLS_TAG }}"}); err != nil {
			return err
		}
		if err := r.ConfigDefaults.AddItem(hooks.ConfigEntry{Key: "TOOLS_TAG", Value: "3"}); err != nil {
			return err
		}
		if err := r.ConfigUnique.AddItem(hooks.ConfigEntry{Key: "TOOLS_SECRET", Value: "{{ randAlphaNum 12 }}"}); err != nil {
			return err
		}
		if err := r.ImagesPull.AddItem(hooks.ImageRef{Name: "tools", Tag: "{{ .TOOLS_IMAGE }}"}); err != nil {
			return err
		}
		if err := r.InitTasks.AddItem(hooks.InitTask{Service: "lms", Script: "echo {{ .TOOLS_TAG }}"}); err != nil {
			return err
		}
		if err := r.DoCommands.AddItem(hooks.Job{Name: "greet", Run: func(args []string) ([]hooks.Task, error) {
			return []hooks.Task{{Service: "lms", Command: "echo hello " + strings.Join(args, " ")}}, nil
		}}); err != nil {
			return err
		}
		return r.CLICommands.AddItem(hooks.Command{Name: "ping", Run: func(_ context.Context, args []string, out io.Writer) error {
			if len(args) > 0 && args[0] == "--fail" {
				return errors.New("ping failed")
			}
			_, err := io.WriteString(out, "pong\n")
			return err
		}})
	}}
}

type harness struct {
	root        string
	out         bytes.Buffer
	errOut      bytes.Buffer
	client      *recordingDockerClient
	dialed      int
	prompter    *mockPrompter
	interactive bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{root: t.TempDir(), client: &recordingDockerClient{}, prompter: &mockPrompter{}}
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	deps := Dependencies{
		Out:    &h.out,
		ErrOut: &h.errOut,
		NewDockerClient: func() (images.DockerClient, error) {
			h.dialed++
			return h.client, nil
		},
		Plugins: func() []plugins.Plugin {
			return []plugins.Plugin{legacyfrontends.New(), toolsPlugin()}
		},
		Prompter:      h.prompter,
		IsInteractive: func() bool { return h.interactive },
	}
	return Run(append([]string{"--root", h.root}, args...), deps)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("version"))
	assert.Contains(t, h.out.String(), version.Release)
}

func TestNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 0, Run(nil, Dependencies{Out: &out}))
	assert.Contains(t, out.String(), "Usage:")
}

func TestHelpExitsZero(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("--help"))
	assert.Contains(t, h.out.String(), "plugins")
}

func TestParseErrorExitsOne(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run("nope"))
}

func TestPluginsEnableListDisable(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends"))
	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacyfrontends"}, config.EnabledPlugins(user))

	require.Equal(t, 0, h.run("plugins", "list"))
	assert.Contains(t, h.out.String(), version.Release+" (enabled)")
	assert.Contains(t, h.out.String(), "1.0.0 (disabled)")

	require.Equal(t, 0, h.run("plugins", "disable", "legacyfrontends"))
	user, err = config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Empty(t, config.EnabledPlugins(user))

	assert.Equal(t, 1, h.run("plugins", "enable", "missing"))
	assert.Contains(t, h.out.String(), "unknown plugin")
}

func TestConfigSaveRendersEnvironment(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends"))

	require.Equal(t, 0, h.run("config", "save", "--set", "PLATFORM_NAME=Demo", "--set", "WORKERS=4"))

	settings, err := os.ReadFile(filepath.Join(h.root, "env", "plugins", "legacyfrontends", "apps", "legacyfrontends", "settings.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(settings), `version: "`+version.Release+`"`)
	assert.FileExists(t, filepath.Join(h.root, "env", "plugins", "legacyfrontends", "build", "legacyfrontends", "README.md"))
	assert.NoDirExists(t, filepath.Join(h.root, "env", "plugins", "legacyfrontends", "tasks"))

	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Equal(t, "Demo", user["PLATFORM_NAME"])
	assert.Equal(t, 4, user["WORKERS"])

	require.Equal(t, 0, h.run("config", "save", "--unset", "WORKERS"))
	user, err = config.LoadUser(h.root)
	require.NoError(t, err)
	assert.NotContains(t, user, "WORKERS")
}

func TestConfigSavePersistsGeneratedUniqueValues(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "tools"))
	require.Equal(t, 0, h.run("config", "save"))

	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	secret, ok := user["TOOLS_SECRET"].(string)
	require.True(t, ok)
	assert.Len(t, secret, 12)
	assert.NotContains(t, user, "TOOLS_TAG")

	require.Equal(t, 0, h.run("config", "save"))
	user, err = config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Equal(t, secret, user["TOOLS_SECRET"])
}

func TestConfigPrintValue(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends", "tools"))

	require.Equal(t, 0, h.run("config", "printvalue", "LEGACYFRONTENDS_VERSION"))
	assert.Equal(t, version.Release+"\n", h.out.String())

	require.Equal(t, 0, h.run("config", "printvalue", "TOOLS_IMAGE"))
	assert.Equal(t, "tools:3\n", h.out.String())

	require.Equal(t, 0, h.run("config", "printvalue", "PLUGINS"))
	assert.Equal(t, "- legacyfrontends\n- tools\n", h.out.String())

	assert.Equal(t, 1, h.run("config", "printvalue", "NOPE"))
	assert.Contains(t, h.out.String(), "unknown config key")

	require.Equal(t, 0, h.run("config", "printroot"))
	assert.Equal(t, h.root+"\n", h.out.String())
}

func TestConfigSaveInteractiveReviewsDefaults(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends", "tools"))

	assert.Equal(t, 1, h.run("config", "save", "--interactive"))
	assert.Contains(t, h.out.String(), interaction.ErrNotInteractive.Error())

	h.interactive = true
	h.prompter.answers = map[string]string{"TOOLS_TAG": "4"}
	require.Equal(t, 0, h.run("config", "save", "-i"))
	assert.Equal(t, []string{"LEGACYFRONTENDS_VERSION", "TOOLS_IMAGE", "TOOLS_TAG"}, h.prompter.asked)

	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Equal(t, 4, user["TOOLS_TAG"])
	assert.NotContains(t, user, "LEGACYFRONTENDS_VERSION")

	require.Equal(t, 0, h.run("config", "printvalue", "TOOLS_IMAGE"))
	assert.Equal(t, "tools:4\n", h.out.String())
}

func TestPluginsEnablePromptsForName(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.run("plugins", "enable"))
	assert.Contains(t, h.out.String(), "no plugin name given")

	h.interactive = true
	h.prompter.selection = "tools"
	require.Equal(t, 0, h.run("plugins", "enable"))
	assert.Equal(t, []string{"legacyfrontends", "tools"}, h.prompter.options)

	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	assert.Equal(t, []string{"tools"}, config.EnabledPlugins(user))
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "tools"))
	t.Setenv("LEGACYFRONTENDS_TOOLS_TAG", "9")

	require.Equal(t, 0, h.run("config", "printvalue", "TOOLS_IMAGE"))
	assert.Equal(t, "tools:9\n", h.out.String())

	require.Equal(t, 0, h.run("config", "save"))
	user, err := config.LoadUser(h.root)
	require.NoError(t, err)
	assert.NotContains(t, user, "TOOLS_TAG")
}

func TestPatchesListAndShow(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("patches", "list"))
	assert.Contains(t, h.out.String(), "No patches registered")

	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends"))
	require.Equal(t, 0, h.run("patches", "list"))
	assert.Contains(t, h.out.String(), legacyfrontends.PreAssetsPatch)
	assert.Contains(t, h.out.String(), legacyfrontends.PostPythonRequirementsPatch)

	require.Equal(t, 0, h.run("patches", "show", legacyfrontends.PreAssetsPatch))
	assert.Contains(t, h.out.String(), "RUN npm run webpack")
}

func TestImagesWithoutDescriptorsSkipTheDaemon(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "legacyfrontends"))

	require.Equal(t, 0, h.run("images", "build"))
	require.Equal(t, 0, h.run("images", "pull"))
	require.Equal(t, 0, h.run("images", "push"))
	assert.Zero(t, h.dialed)

	assert.Equal(t, 1, h.run("images", "pull", "mfe"))
	assert.Contains(t, h.out.String(), images.ErrUnknownImage.Error())
}

func TestImagesPullRendersTags(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "tools"))

	require.Equal(t, 0, h.run("images", "pull", "tools"))
	assert.Equal(t, 1, h.dialed)
	assert.Equal(t, []string{"tools:3"}, h.client.pulls)
}

func TestDoInitJobAndRun(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("plugins", "enable", "tools"))

	require.Equal(t, 0, h.run("do", "init"))
	assert.Contains(t, h.out.String(), "lms:")
	assert.Contains(t, h.out.String(), "echo 3")

	require.Equal(t, 0, h.run("do", "init", "--limit", "cms"))
	assert.Contains(t, h.out.String(), "No init tasks")

	require.Equal(t, 0, h.run("do", "job", "greet", "world"))
	assert.Contains(t, h.out.String(), "echo hello world")

	assert.Equal(t, 1, h.run("do", "job", "absent"))
	assert.Contains(t, h.out.String(), "unknown job")

	require.Equal(t, 0, h.run("run", "ping"))
	assert.Equal(t, "pong\n", h.out.String())

	assert.Equal(t, 1, h.run("run", "ping", "--fail"))
	assert.Contains(t, h.out.String(), "ping failed")
}

func TestYAMLPluginsAreDiscovered(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(h.root, "plugins")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	manifest := "name: my-theme\nversion: 0.1.0\nconfig:\n  defaults:\n    COLOR: blue\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my-theme.yml"), []byte(manifest), 0o644))

	require.Equal(t, 0, h.run("plugins", "enable", "my-theme"))
	require.Equal(t, 0, h.run("config", "printvalue", "MY_THEME_COLOR"))
	assert.Equal(t, "blue\n", h.out.String())
}

func TestCompletionScripts(t *testing.T) {
	h := newHarness(t)
	for _, shell := range []string{"bash", "zsh", "fish"} {
		require.Equal(t, 0, h.run("completion", shell))
		assert.Contains(t, h.out.String(), "plugins")
		assert.Contains(t, h.out.String(), "printvalue")
	}
}

func TestCommandPath(t *testing.T) {
	assert.Equal(t, "images build", commandPath("images build <names>"))
	assert.Equal(t, "run", commandPath("run <name> <args>"))
	assert.Equal(t, "version", commandPath("version"))
}
