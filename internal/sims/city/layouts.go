package city

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"urban-ca/internal/core"
)

// ErrUnknownLayout is returned when no generator is registered under a name.
var ErrUnknownLayout = errors.New("unknown layout")

// LayoutFunc builds an initial n*n grid from the provided random source.
type LayoutFunc func(n int, rng *core.RNG) *Grid

var (
	layoutsMu sync.RWMutex
	layouts   = map[string]LayoutFunc{
		"empty": func(n int, _ *core.RNG) *Grid { return NewGrid(n) },
	}
)

// RegisterLayout adds an initial-grid generator under name.
func RegisterLayout(name string, fn LayoutFunc) {
	if name == "" || fn == nil {
		return
	}
	layoutsMu.Lock()
	defer layoutsMu.Unlock()
	layouts[name] = fn
}

// LayoutNames lists registered layouts in sorted order.
func LayoutNames() []string {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildLayout runs the generator registered under name.
func BuildLayout(name string, n int, rng *core.RNG) (*Grid, error) {
	layoutsMu.RLock()
	fn, ok := layouts[name]
	layoutsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return fn(n, rng), nil
}
