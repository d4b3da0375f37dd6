package checks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"a11ycheck/internal/kinds"
)

var (
	registry = make(map[string]Check)
	mu       sync.RWMutex
)

// Register adds a check under its kind name and records the kind in the
// process-wide kind registry so serialized results from this check can be
// decoded. Built-in checks call this from init.
func Register(c Check) {
	k := c.Kind()
	if k.Class() != kinds.ClassCheck {
		panic(fmt.Sprintf("check %q has kind class %s, want %s", k.Name(), k.Class(), kinds.ClassCheck))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[k.Name()]; exists {
		panic(fmt.Sprintf("check %s already registered", k.Name()))
	}
	kinds.Register(k)
	registry[k.Name()] = c
}

// List returns all registered checks sorted by kind name.
func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	var out []Check
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Kind().Name() < out[j].Kind().Name()
	})
	return out
}

// ByKind returns the registered check for a kind, if any. Used to render
// messages for results reconstructed from the wire.
func ByKind(k kinds.Kind) (Check, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[k.Name()]
	return c, ok
}

// Resolve selects checks by a comma-separated list of kind names. An empty
// selector means all checks.
func Resolve(selector string) ([]Check, error) {
	if selector == "" {
		return List(), nil
	}

	mu.RLock()
	defer mu.RUnlock()

	names := strings.Split(selector, ",")
	var selected []Check
	for _, name := range names {
		name = strings.TrimSpace(name)
		if c, ok := registry[name]; ok {
			selected = append(selected, c)
		} else {
			return nil, fmt.Errorf("check not found: %s", name)
		}
	}
	return selected, nil
}
