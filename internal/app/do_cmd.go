// Where: internal/app/do_cmd.go
// What: do init / do job and run commands.
// Why: Expose init tasks, plugin jobs, and plugin CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/poruru-code/legacyfrontends/internal/ui"
)

var (
	errUnknownJob     = errors.New("unknown job")
	errUnknownCommand = errors.New("unknown command")
)

type (
	DoCmd struct {
		Init DoInitCmd `cmd:"" help:"List the init tasks of every service"`
		Job  DoJobCmd  `cmd:"" help:"List the tasks of a plugin job"`
	}
	DoInitCmd struct {
		Limit string `short:"l" help:"Only the tasks of this service"`
	}
	DoJobCmd struct {
		Name string   `arg:"" help:"Job name"`
		Args []string `arg:"" optional:"" passthrough:"" help:"Job arguments"`
	}
	RunCmd struct {
		Name string   `arg:"" help:"Command name"`
		Args []string `arg:"" optional:"" passthrough:"" help:"Command arguments"`
	}
)

func runDoInit(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	renderer, _, err := s.renderer(cli)
	if err != nil {
		return exitWithError(console, err)
	}

	count := 0
	for i, task := range s.registry.InitTasks.Items() {
		if cli.Do.Init.Limit != "" && task.Service != cli.Do.Init.Limit {
			continue
		}
		script, err := renderer.RenderString(fmt.Sprintf("init:%s:%d", task.Service, i), task.Script)
		if err != nil {
			return exitWithError(console, err)
		}
		printTask(console, hooks.Task{Service: task.Service, Command: script})
		count++
	}
	if count == 0 {
		console.Info("No init tasks")
	}
	return 0
}

func runDoJob(_ context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	name := cli.Do.Job.Name
	for _, job := range s.registry.DoCommands.Items() {
		if job.Name != name {
			continue
		}
		tasks, err := job.Run(cli.Do.Job.Args)
		if err != nil {
			return exitWithError(console, fmt.Errorf("run job %s: %w", name, err))
		}
		for _, task := range tasks {
			printTask(console, task)
		}
		return 0
	}
	return exitWithError(console, fmt.Errorf("%w: %s", errUnknownJob, name))
}

func runPluginCommand(ctx context.Context, cli CLI, deps Dependencies, console *ui.Console) int {
	s, err := openSession(cli, deps)
	if err != nil {
		return exitWithError(console, err)
	}
	name := cli.Run.Name
	for _, cmd := range s.registry.CLICommands.Items() {
		if cmd.Name != name {
			continue
		}
		if err := cmd.Run(ctx, cli.Run.Args, deps.Out); err != nil {
			return exitWithError(console, fmt.Errorf("run command %s: %w", name, err))
		}
		return 0
	}
	return exitWithError(console, fmt.Errorf("%w: %s", errUnknownCommand, name))
}

func printTask(console *ui.Console, task hooks.Task) {
	console.Header("⚙️", task.Service+":")
	console.Raw(task.Command)
}
