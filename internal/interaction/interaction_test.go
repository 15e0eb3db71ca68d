// Where: internal/interaction/interaction_test.go
// What: Tests for terminal detection and prompt edge cases.
// Why: Commands must refuse to prompt when stdin is not a terminal.
package interaction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminalRejectsNilAndRegularFiles(t *testing.T) {
	assert.False(t, IsTerminal(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	assert.False(t, IsTerminal(f))
}

func TestHuhSelectWithoutOptions(t *testing.T) {
	selected, err := HuhPrompter{}.Select("Plugin", nil)
	require.NoError(t, err)
	assert.Empty(t, selected)
}
