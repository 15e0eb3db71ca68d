// Where: internal/app/completion.go
// What: Shell completion command implementation.
// Why: Provide subcommand completion for bash, zsh, and fish.
package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/poruru-code/legacyfrontends/internal/meta"
	"github.com/poruru-code/legacyfrontends/internal/ui"
)

// CompletionCmd defines the structure for the completion command.
type CompletionCmd struct {
	Bash CompletionBashCmd `cmd:"" help:"Generate bash completion script"`
	Zsh  CompletionZshCmd  `cmd:"" help:"Generate zsh completion script"`
	Fish CompletionFishCmd `cmd:"" help:"Generate fish completion script"`
}

type (
	CompletionBashCmd struct{}
	CompletionZshCmd  struct{}
	CompletionFishCmd struct{}
)

func runCompletionBash(_ context.Context, _ CLI, _ Dependencies, console *ui.Console) int {
	commands, subcommands, order := collectCompletionCommands()

	var caseParts []string
	for _, cmd := range order {
		caseParts = append(caseParts, fmt.Sprintf(`        %s)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            return 0
            ;;`, cmd, strings.Join(subcommands[cmd], " ")))
	}

	script := `_%[1]s_completion() {
    local cur cmd
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    cmd="${COMP_WORDS[1]}"

    if [[ ${COMP_CWORD} -eq 2 ]]; then
        case "${cmd}" in
%[2]s
        esac
    fi

    if [[ ${COMP_CWORD} -le 1 ]]; then
        COMPREPLY=( $(compgen -W "%[3]s" -- "${cur}") )
        return 0
    fi
}
complete -F _%[1]s_completion %[1]s
`
	console.Raw(fmt.Sprintf(script, meta.AppName, strings.Join(caseParts, "\n"), strings.Join(commands, " ")))
	return 0
}

func runCompletionZsh(_ context.Context, _ CLI, _ Dependencies, console *ui.Console) int {
	commands, subcommands, order := collectCompletionCommands()

	var subBlocks strings.Builder
	for _, cmd := range order {
		fmt.Fprintf(&subBlocks, `  if [[ "${cmd}" == "%s" && $CURRENT -eq 3 ]]; then
    _values '%s' %s
    return
  fi
`, cmd, cmd, strings.Join(subcommands[cmd], " "))
	}

	script := `#compdef %[1]s
_%[1]s_completion() {
  local -a commands
  commands=(%[2]s)
  local cmd="${words[2]}"

  if [[ $CURRENT -eq 2 ]]; then
    _values 'commands' ${commands[@]}
    return
  fi

%[3]s}
_%[1]s_completion "$@"
`
	console.Raw(fmt.Sprintf(script, meta.AppName, strings.Join(commands, " "), subBlocks.String()))
	return 0
}

func runCompletionFish(_ context.Context, _ CLI, _ Dependencies, console *ui.Console) int {
	commands, subcommands, order := collectCompletionCommands()
	console.Raw(fmt.Sprintf("complete -c %s -f -n \"__fish_use_subcommand\" -a \"%s\"", meta.AppName, strings.Join(commands, " ")))
	for _, cmd := range order {
		console.Raw(fmt.Sprintf("complete -c %s -f -n \"__fish_seen_subcommand_from %s\" -a \"%s\"",
			meta.AppName, cmd, strings.Join(subcommands[cmd], " ")))
	}
	return 0
}

// collectCompletionCommands walks the kong model. order lists the commands
// that have subcommands, sorted.
func collectCompletionCommands() ([]string, map[string][]string, []string) {
	parser, err := kong.New(&CLI{}, kong.Name(meta.AppName))
	if err != nil {
		return nil, nil, nil
	}

	var commands []string
	subcommands := make(map[string][]string)
	for _, node := range parser.Model.Children {
		if node.Hidden || node.Type != kong.CommandNode {
			continue
		}
		commands = append(commands, node.Name)
		var subs []string
		for _, sub := range node.Children {
			if sub.Hidden || sub.Type != kong.CommandNode {
				continue
			}
			subs = append(subs, sub.Name)
		}
		if len(subs) > 0 {
			subcommands[node.Name] = subs
		}
	}

	order := make([]string, 0, len(subcommands))
	for cmd := range subcommands {
		order = append(order, cmd)
	}
	slices.Sort(order)
	return commands, subcommands, order
}
