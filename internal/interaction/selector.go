// Where: internal/interaction/selector.go
// What: Interactive prompts built on the huh library.
// Why: Provide keyboard-based input and selection for interactive commands.
package interaction

import (
	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter with huh forms.
type HuhPrompter struct{}

func (HuhPrompter) Input(title, value string) (string, error) {
	input := value
	err := huh.NewInput().
		Title(title).
		Value(&input).
		Run()
	if err != nil {
		return "", err
	}
	return input, nil
}

func (HuhPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&selected).
		Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}
