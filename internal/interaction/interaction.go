// Where: internal/interaction/interaction.go
// What: Prompt contract and TTY detection.
// Why: Interactive commands ask questions only when a person is at the terminal.
package interaction

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a terminal.
var ErrNotInteractive = errors.New("interactive input requires a terminal")

// Prompter asks the user for input.
type Prompter interface {
	// Input asks for free text. value is shown pre-filled and returned when
	// the user accepts it unchanged.
	Input(title, value string) (string, error)
	Select(title string, options []string) (string, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
