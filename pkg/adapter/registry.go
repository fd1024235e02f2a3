package adapter

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// Factory creates an unconnected adapter.
type Factory func(*slog.Logger) Adapter

// Backend is a registered adapter type together with the dialect its
// driver follows when it hands date columns back.
type Backend struct {
	Name    string
	Dialect *dialect.Dialect
	New     Factory
}

// Mode returns how the backend's driver returns date columns.
func (b Backend) Mode() dialect.Mode {
	return b.Dialect.Mode
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Backend)
)

// Register adds a backend. Adapter packages call it from init().
// Names are case-insensitive; registering a name again replaces it.
func Register(b Backend) {
	if b.Dialect == nil || b.New == nil {
		panic(fmt.Sprintf("adapter: backend %q registered without dialect or factory", b.Name))
	}
	backendsMu.Lock()
	defer backendsMu.Unlock()
	b.Name = strings.ToLower(b.Name)
	backends[b.Name] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[strings.ToLower(name)]
	return b, ok
}

// Backends returns every registered backend sorted by name.
func Backends() []Backend {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Backend) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// BackendsByMode returns the backends whose drivers follow mode.
func BackendsByMode(mode dialect.Mode) []Backend {
	var out []Backend
	for _, b := range Backends() {
		if b.Mode() == mode {
			out = append(out, b)
		}
	}
	return out
}

// ListAdapters returns the registered backend names, sorted.
func ListAdapters() []string {
	all := Backends()
	names := make([]string, len(all))
	for i, b := range all {
		names[i] = b.Name
	}
	return names
}

// NewAdapter creates an unconnected adapter for cfg.Type. The adapter must
// report the dialect its backend was registered with, since codecs pick
// their parse rules from that dialect's mode.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	b, ok := Lookup(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	a := b.New(DiscardIfNil(logger))
	if got := a.Dialect(); got != b.Dialect {
		return nil, fmt.Errorf("adapter %s reports dialect %s, registered with %s", b.Name, dialectName(got), b.Dialect.Name)
	}
	return a, nil
}

func dialectName(d *dialect.Dialect) string {
	if d == nil {
		return "<nil>"
	}
	return d.Name
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unknown adapter type %q\nAvailable adapters:", e.Type)
	for _, name := range e.Available {
		if be, ok := Lookup(name); ok {
			fmt.Fprintf(&b, " %s (%s)", name, be.Mode())
			continue
		}
		fmt.Fprintf(&b, " %s", name)
	}
	b.WriteString("\nHint: Check targets.<name>.type in datecol.yaml")
	return b.String()
}
