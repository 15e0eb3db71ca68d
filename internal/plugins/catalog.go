// Where: internal/plugins/catalog.go
// What: Plugin interface and the process-wide catalog of installed plugins.
// Why: Plugins make themselves discoverable by registering from init().
package plugins

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
)

// ErrUnknownPlugin is returned when a plugin name is not installed.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Plugin contributes declarative data to the host registry when loaded.
type Plugin interface {
	Name() string
	Version() string
	Load(r *hooks.Registry) error
}

var (
	catalogMu sync.RWMutex
	catalog   = map[string]Plugin{}
)

// Register makes a plugin discoverable. It panics when the name is empty or
// already registered.
func Register(p Plugin) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	name := strings.TrimSpace(p.Name())
	if name == "" {
		panic("plugins: Register called with an unnamed plugin")
	}
	if _, dup := catalog[name]; dup {
		panic("plugins: Register called twice for plugin " + name)
	}
	catalog[name] = p
}

// Installed returns the registered plugins sorted by name.
func Installed() []Plugin {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	list := make([]Plugin, 0, len(catalog))
	for _, p := range catalog {
		list = append(list, p)
	}
	sortByName(list)
	return list
}

// Lookup finds a plugin by name among the given candidates.
func Lookup(candidates []Plugin, name string) (Plugin, error) {
	for _, p := range candidates {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
}

func sortByName(list []Plugin) {
	slices.SortFunc(list, func(a, b Plugin) int {
		return strings.Compare(a.Name(), b.Name())
	})
}
