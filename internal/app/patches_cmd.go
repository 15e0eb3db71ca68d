// Where: internal/app/patches_cmd.go
// What: patches list / show commands.
// Why: Let users inspect what plugins insert into the templates.
package app

import (
	"context"
	"fmt"

	"github.com/poruru-code/legacyfrontends/internal/ui"
)

type (
	PatchesCmd struct {
		List PatchesListCmd `cmd:"" help:"List insertion points with registered patches"`
		Show PatchesShowCmd `cmd:"" help:"Print the rendered content of one insertion point"`
	}
	PatchesListCmd struct{}
	PatchesShowCmd struct {
		Name string `arg:"" help:"Insertion point name"`
	}
)

func runPatchesList(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	names := s.registry.PatchNames()
	if len(names) == 0 {
		console.Info("No patches registered")
		return 0
	}
	console.Header("🩹", "Patches:")
	for _, name := range names {
		console.Item(name, fmt.Sprintf("%d payload(s)", len(s.registry.Patches(name))))
	}
	return 0
}

func runPatchesShow(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	renderer, _, err := s.renderer(cli)
	if err != nil {
		return exitWithError(console, err)
	}
	content, err := renderer.Patch(cli.Patches.Show.Name)
	if err != nil {
		return exitWithError(console, err)
	}
	console.Raw(content)
	return 0
}
